package model

type Principal struct {
	Subject string
	Name    string
	Role    string
}

func (p Principal) IsAnonymous() bool {
	return p.Subject == ""
}
