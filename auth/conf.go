package auth

// Conf configures API authentication. An empty Token disables it.
type Conf struct {
	Token string `json:"token"`
}

// Enabled reports whether requests must carry the token.
func (c Conf) Enabled() bool { return c.Token != "" }
