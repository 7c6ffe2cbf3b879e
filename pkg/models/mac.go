package models

// MacEntry is one record in the flat address list: a MAC address with
// whatever identity was learned for it. All fields except MAC are optional
// and empty when unknown.
type MacEntry struct {
	MAC      string `json:"mac"`
	IP       string `json:"ip,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	Switch   string `json:"switch,omitempty"`
	Port     string `json:"port,omitempty"`
}
