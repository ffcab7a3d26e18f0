package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relic_play_sessions_started_total",
		Help: "Number of story play sessions started.",
	})
	metricSessionsEnded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relic_play_sessions_ended_total",
		Help: "Number of story play sessions explicitly ended.",
	})
	metricSceneTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relic_scene_transitions_total",
		Help: "Number of scene transitions across all play sessions.",
	})
	metricQuizSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relic_quiz_submissions_total",
		Help: "Quiz submissions by status.",
	}, []string{"status"})
	metricContentRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relic_story_content_rejected_total",
		Help: "Stories rejected by load-time validation.",
	})
)
