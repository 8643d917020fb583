package jetstream

import (
	"strconv"

	"github.com/nats-io/nats.go"
)

// MessageID identifies a delivered JetStream message by its stream sequence.
// Messages without JetStream metadata yield an empty string.
func MessageID(msg *nats.Msg) string {
	meta, err := msg.Metadata()
	if err != nil {
		return ""
	}
	return "seq:" + strconv.FormatUint(meta.Sequence.Stream, 10)
}
