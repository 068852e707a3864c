package entity

// ACL is stored on every mutable document. User ids and role names are kept in
// separate lists so role groups can never be confused with user ids.
type ACL struct {
	PublicRead  bool     `json:"public_read" firestore:"publicRead"`
	Readers     []string `json:"readers,omitempty" firestore:"readers"`
	Writers     []string `json:"writers,omitempty" firestore:"writers"`
	RoleReaders []string `json:"role_readers,omitempty" firestore:"roleReaders"`
	RoleWriters []string `json:"role_writers,omitempty" firestore:"roleWriters"`
}

func (a ACL) CanRead(s *Session) bool {
	if a.PublicRead {
		return true
	}
	if !s.IsAuthenticated() {
		return false
	}
	return contains(a.Readers, s.UserID) || contains(a.Writers, s.UserID) ||
		contains(a.RoleReaders, s.Role) || contains(a.RoleWriters, s.Role)
}

func (a ACL) CanWrite(s *Session) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return contains(a.Writers, s.UserID) || contains(a.RoleWriters, s.Role)
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
