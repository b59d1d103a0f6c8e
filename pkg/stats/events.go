package stats

import "github.com/huynhanx03/go-titlesync/pkg/leaderboard"

// EventType is the kind of completed asynchronous operation an Event reports.
type EventType int

const (
	// EventUserAdded reports the completion of AddLocalUser's initial fetch.
	EventUserAdded EventType = iota
	// EventUserRemoved reports the completion of RemoveLocalUser.
	EventUserRemoved
	// EventStatUpdateComplete reports a finished document flush.
	EventStatUpdateComplete
	// EventLeaderboardComplete reports a finished leaderboard fetch;
	// the result is in Event.Leaderboard.
	EventLeaderboardComplete
)

func (t EventType) String() string {
	switch t {
	case EventUserAdded:
		return "local_user_added"
	case EventUserRemoved:
		return "local_user_removed"
	case EventStatUpdateComplete:
		return "stat_update_complete"
	case EventLeaderboardComplete:
		return "get_leaderboard_complete"
	default:
		return "unknown"
	}
}

// Event is one drainable outcome. Events queue in operation completion
// order and are returned, then cleared, by Manager.DoWork.
type Event struct {
	Type        EventType
	UserID      string
	Err         error
	Leaderboard *leaderboard.Result
}
