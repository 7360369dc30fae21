package models

type InterviewRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type InterviewFeedback struct {
	Score           int      `json:"score"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	SuggestedAnswer string   `json:"suggested_answer"`
}

// EnsureLists keeps strengths/weaknesses marshaling as [] instead of null.
func (f *InterviewFeedback) EnsureLists() {
	if f.Strengths == nil {
		f.Strengths = []string{}
	}
	if f.Weaknesses == nil {
		f.Weaknesses = []string{}
	}
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
