package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostsCreated counts posts created through uploads.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instawinx_posts_created_total",
		Help: "Total number of posts created",
	})

	// LikesToggled counts like toggles by resulting action (liked, unliked).
	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instawinx_likes_toggled_total",
		Help: "Total number of like toggles by resulting action",
	}, []string{"action"})

	// CommentsCreated counts comments added to posts.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "instawinx_comments_created_total",
		Help: "Total number of comments created",
	})

	// FriendshipTransitions counts friend-request outcomes (requested, accepted, rejected).
	FriendshipTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instawinx_friendship_transitions_total",
		Help: "Total number of friendship requests by outcome",
	}, []string{"action"})

	// LoginAttempts counts login attempts by result (success, failure).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instawinx_login_attempts_total",
		Help: "Total number of login attempts by result",
	}, []string{"result"})

	// Registrations counts account registrations by result (success, duplicate, invalid).
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "instawinx_registrations_total",
		Help: "Total number of registrations by result",
	}, []string{"result"})
)
