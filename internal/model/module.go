package model

// Module is a taught unit (e.g. "Databases"). Questions and exams are scoped
// to exactly one module; students enroll in many, staff own exactly one.
type Module struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
