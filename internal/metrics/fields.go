package metrics

// Attribute keys shared by the otel instruments.
const (
	AttrResource = "resource"
	AttrJob      = "job"
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
)
