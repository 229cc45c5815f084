package upstream

import "time"

const (
	defaultBaseURL     = "https://api2.blaseball.com"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 512
)
