package schemas

// Group join verification methods
const (
	VerifyFree   = "fr" // anyone joins directly
	VerifyAnswer = "aw" // must answer the configured question
	VerifyAdmin  = "ac" // admin approval required
	VerifyClosed = "na" // nobody may join
)

// MemberInfo holds per-member metadata on the group side
type MemberInfo struct {
	Nick string `json:"nick"`
}

// GroupSettings holds the join verification configuration
type GroupSettings struct {
	VerificationMethod string `json:"verification_method"`
	Answer             string `json:"answer"`
}

// Group is the durable group record
type Group struct {
	GroupID    string                `json:"group_id"`
	Name       string                `json:"name"`
	Owner      string                `json:"owner"`
	AdminList  []string              `json:"admin_list"`
	MemberDict map[string]MemberInfo `json:"member_dict"`
	Settings   GroupSettings         `json:"group_settings"`
}

// NewGroup creates a group record owned by ownerID with open join mode
func NewGroup(groupID string, name string, ownerID string, ownerNick string) *Group {
	return &Group{
		GroupID:    groupID,
		Name:       name,
		Owner:      ownerID,
		AdminList:  []string{},
		MemberDict: map[string]MemberInfo{ownerID: {Nick: ownerNick}},
		Settings:   GroupSettings{VerificationMethod: VerifyFree},
	}
}

// IsAdmin reports whether userID is the owner or in the admin list
func (g *Group) IsAdmin(userID string) bool {
	if userID == g.Owner {
		return true
	}
	for _, id := range g.AdminList {
		if id == userID {
			return true
		}
	}
	return false
}

// AdminIDs returns the admin list plus the owner
func (g *Group) AdminIDs() []string {
	return append(append([]string{}, g.AdminList...), g.Owner)
}
