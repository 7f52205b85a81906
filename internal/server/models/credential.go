package models

// Credential is one stored user. Password holds either the plaintext value
// or a bcrypt hash, depending on the hasher the credential store was built
// with; code outside the credential store must not interpret it.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserRecord is the body of the "users" document.
type UserRecord struct {
	Schema int          `json:"schema"`
	Users  []Credential `json:"users"`
}
