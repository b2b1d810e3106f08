package metrics

import (
	"database/sql"
	"time"
)

// RecordFavoriteCreated records a new favorite on a target of kind.
func RecordFavoriteCreated(kind string) {
	FavoritesCreatedTotal.WithLabelValues(kind).Inc()
}

// RecordFavoriteDeleted records a removed favorite on a target of kind.
func RecordFavoriteDeleted(kind string) {
	FavoritesDeletedTotal.WithLabelValues(kind).Inc()
}

// RecordFavoriteRejected records a favorite request refused for reason.
func RecordFavoriteRejected(reason string) {
	FavoritesRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordPostPublished counts a created post.
func RecordPostPublished() {
	PostsPublishedTotal.Inc()
}

// RecordPostDeleted counts a deleted post.
func RecordPostDeleted() {
	PostsDeletedTotal.Inc()
}

// RecordDBQuery records the duration of a database operation such as
// "favorite_create" or "followers_of".
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats copies pool statistics into the DB gauges.
func UpdateDBConnectionStats(stats sql.DBStats) {
	DBConnectionsActive.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
	DBWaitCount.Set(float64(stats.WaitCount))
}
