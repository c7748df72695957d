package schemas

// RegisterSchema struct
type RegisterSchema struct {
	UserID   string `mapstructure:"user_id" validate:"required,max=30"`
	Password string `mapstructure:"password" validate:"required"`
	UserName string `mapstructure:"username" validate:"required,max=60"`
}

// LoginSchema struct
type LoginSchema struct {
	UserID   string `mapstructure:"user_id" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
}

// RenameSchema struct
type RenameSchema struct {
	Name string `mapstructure:"name" validate:"required,max=60"`
}

// GetUserNameSchema struct
type GetUserNameSchema struct {
	UserID string `mapstructure:"user_id" validate:"required"`
}

// StatusSchema struct
type StatusSchema struct {
	UserID string `mapstructure:"user_id" validate:"required"`
}

// AddFriendSchema struct
type AddFriendSchema struct {
	UserID  string `mapstructure:"user_id" validate:"required"`
	AddInfo string `mapstructure:"add_info"`
}

// AgreeFriendSchema struct
type AgreeFriendSchema struct {
	Rid string `mapstructure:"rid" validate:"required"`
}

// SetNickSchema struct
type SetNickSchema struct {
	UserID string `mapstructure:"user_id" validate:"required"`
	Nick   string `mapstructure:"nick" validate:"required,max=60"`
}

// CreateGroupSchema struct
type CreateGroupSchema struct {
	Name string `mapstructure:"name" validate:"required,max=60"`
}

// JoinGroupSchema struct
type JoinGroupSchema struct {
	GroupID string `mapstructure:"group_id" validate:"required"`
	AddInfo string `mapstructure:"add_info"`
}

// AgreeJoinSchema struct
type AgreeJoinSchema struct {
	Rid string `mapstructure:"rid" validate:"required"`
}

// AddAdminSchema struct
type AddAdminSchema struct {
	GroupID  string `mapstructure:"group_id" validate:"required"`
	MemberID string `mapstructure:"member_id" validate:"required"`
}

// GroupRenameSchema struct
type GroupRenameSchema struct {
	GroupID string `mapstructure:"group_id" validate:"required"`
	Name    string `mapstructure:"name" validate:"required,max=60"`
}

// SetVerificationSchema struct
type SetVerificationSchema struct {
	GroupID string `mapstructure:"group_id" validate:"required"`
	Method  string `mapstructure:"method" validate:"required,oneof=fr aw ac na"`
	Answer  string `mapstructure:"answer"`
}

// CheckFileExistsSchema struct
type CheckFileExistsSchema struct {
	FileHash string `mapstructure:"file_hash" validate:"required,len=64"`
}
