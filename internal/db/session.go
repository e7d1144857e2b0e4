package db

const (
	tokenKey   = "token"
	lastTabKey = "last_tab"
)

// GetToken returns the stored bearer token, or "" when logged out
func (db *DB) GetToken() (string, error) {
	return db.GetSetting(tokenKey)
}

// SaveToken stores the bearer token
func (db *DB) SaveToken(token string) error {
	return db.SetSetting(tokenKey, token)
}

// ClearToken forgets the bearer token
func (db *DB) ClearToken() error {
	return db.DeleteSetting(tokenKey)
}

// GetLastTab returns the dashboard tab that was open when the app last ran
func (db *DB) GetLastTab() (string, error) {
	return db.GetSetting(lastTabKey)
}

// SetLastTab remembers the open dashboard tab
func (db *DB) SetLastTab(tab string) error {
	return db.SetSetting(lastTabKey, tab)
}
