package model

// MQTTSettings is the broker configuration sent to /api/mqtt/save.
type MQTTSettings struct {
	URI      string `json:"uri"`
	UseTLS   bool   `json:"use_tls"`
	Topic    string `json:"topic,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	CACert   string `json:"ca_cert,omitempty"`
}
