package ctxkeys

type Key int

const (
	PreviewGranted Key = iota // bool: request passed the preview gate
	PreviewEnabled            // bool: whether a preview gate is configured at all
)
