package schemas

import "golang.org/x/crypto/bcrypt"

// User statuses
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// FriendInfo holds per-friend metadata
type FriendInfo struct {
	Nick string `json:"nick"`
}

// GroupInfo holds per-membership metadata on the user side
type GroupInfo struct {
	Remark string `json:"remark"`
	Time   int64  `json:"time"`
}

// User is the durable account record
type User struct {
	UserID       string                `json:"user_id"`
	UserName     string                `json:"user_name"`
	PasswordHash []byte                `json:"password_hash"`
	Token        string                `json:"token"`
	Status       string                `json:"status"`
	FriendDict   map[string]FriendInfo `json:"friend_dict"`
	GroupsDict   map[string]GroupInfo  `json:"groups_dict"`
	TodoList     []string              `json:"todo_list"`
}

// NewUser creates a user record with a freshly hashed password
func NewUser(userID string, password string, userName string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		UserID:       userID,
		UserName:     userName,
		PasswordHash: hash,
		Status:       StatusOffline,
		FriendDict:   map[string]FriendInfo{},
		GroupsDict:   map[string]GroupInfo{},
		TodoList:     []string{},
	}, nil
}

// Auth compares a plaintext password against the stored hash
func (u *User) Auth(password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// AddTodo appends an event reference to the pending notification list
func (u *User) AddTodo(ref string) {
	u.TodoList = append(u.TodoList, ref)
}
