package queries

// Question mirrors a row of the questions table.
type Question struct {
	ID         int64
	Question   string
	Answer     string
	Category   int64
	Difficulty int32
}

// Category mirrors a row of the categories table.
type Category struct {
	ID   int64
	Type string
}

type InsertQuestionParams struct {
	Question   string
	Answer     string
	Category   int64
	Difficulty int32
}
