package schemas

// Event record types
const (
	EventFriendRequest       = "friend_request"
	EventFriendRequestAgreed = "friend_request_agreed"
	EventFriendMsg           = "friend_msg"
	EventGroupJoinRequest    = "group_join_request"
	EventGroupJoinAgreed     = "group_join_request_agreed"
	EventAdminAdded          = "admin_added"
)

// EventRecord is a notification envelope, immutable after creation
type EventRecord map[string]interface{}

// Type returns the discriminator field
func (e EventRecord) Type() string {
	t, _ := e["type"].(string)
	return t
}

// Rid returns the record id field
func (e EventRecord) Rid() string {
	r, _ := e["rid"].(string)
	return r
}

// GetString returns a string payload field
func (e EventRecord) GetString(key string) string {
	s, _ := e[key].(string)
	return s
}

// Time returns the creation timestamp in unix seconds
func (e EventRecord) Time() int64 {
	switch t := e["time"].(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	case int:
		return int64(t)
	}
	return 0
}
