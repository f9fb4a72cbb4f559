package models

// Role values carried by a principal
const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
)

// Principal is the authenticated caller supplied by the auth gate
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the principal has the admin role
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// CanModify reports whether the principal may edit or delete the article
func (p *Principal) CanModify(a *Article) bool {
	if p == nil || a == nil {
		return false
	}
	return p.IsAdmin() || (p.ID != "" && p.ID == a.AuthorID)
}
