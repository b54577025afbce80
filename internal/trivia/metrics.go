package trivia

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quizQuestionsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_quiz_questions_served_total",
		Help: "Quiz questions handed out by the selector.",
	})
	quizExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_quiz_exhausted_total",
		Help: "Quiz requests that found no unasked question left.",
	})
)
