package extract

// MentionModel is a learned mention recognizer. No implementation ships
// with this module; callers inject one with SetModel to enable the
// model and hybrid methods.
//
// Candidates returned by Predict must carry valid byte spans into text
// and a confidence in [0,1]. Category and Pattern may be left empty.
type MentionModel interface {
	Name() string
	Predict(text string) ([]Candidate, error)
}
