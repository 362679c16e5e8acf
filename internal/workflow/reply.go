package workflow

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/liliang-cn/aichat/internal/domain"
)

// Reply is the decoded shape of a workflow payload. Exactly one variant
// applies; Decode picks it in a fixed priority order.
type Reply interface {
	reply()
}

// NoPayload is an absent, null or falsy payload
type NoPayload struct{}

// TextActivities is a payload whose result.activities is a string
type TextActivities struct {
	Text string
}

// ListActivities is a payload whose result.activities is an array.
// Non-string items are kept as compact JSON.
type ListActivities struct {
	Items []string
}

// ObjectActivities is a payload whose result.activities is an object,
// kept as 2-space indented JSON
type ObjectActivities struct {
	JSON string
}

// StartedRun is a payload without activities that names the started run
type StartedRun struct {
	ID string
}

// Unrecognized is any other payload, kept as 2-space indented JSON
type Unrecognized struct {
	JSON string
}

func (NoPayload) reply()        {}
func (TextActivities) reply()   {}
func (ListActivities) reply()   {}
func (ObjectActivities) reply() {}
func (StartedRun) reply()       {}
func (Unrecognized) reply()     {}

// runIDFields are probed in order when activities are missing
var runIDFields = []string{"id", "workflowId", "runId"}

// Decode classifies a raw response body. Values are re-serialized from
// the parsed document, so numbers and strings come out normalized and a
// repeated key resolves to its last value.
func Decode(body []byte) Reply {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return NoPayload{}
	}

	payload := parseValue(gjson.ParseBytes(body))
	if !truthy(payload) {
		return NoPayload{}
	}

	activities, _ := lookup(payload, "result", "activities")
	switch v := activities.(type) {
	case string:
		return TextActivities{Text: v}
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			if text, ok := item.(string); ok {
				items[i] = text
				continue
			}
			items[i] = stringify(item, "")
		}
		return ListActivities{Items: items}
	case *object:
		return ObjectActivities{JSON: stringify(v, "  ")}
	}

	for _, field := range runIDFields {
		id, _ := lookup(payload, field)
		if id == nil {
			continue
		}
		// The first non-null field decides, even when it is falsy
		if truthy(id) {
			return StartedRun{ID: displayString(id)}
		}
		break
	}

	return Unrecognized{JSON: stringify(payload, "  ")}
}

// Format renders a reply as the assistant message text
func Format(r Reply) string {
	switch v := r.(type) {
	case TextActivities:
		return v.Text
	case ListActivities:
		return strings.Join(v.Items, "\n")
	case ObjectActivities:
		return v.JSON
	case StartedRun:
		return fmt.Sprintf("Workflow started. Id: %s", v.ID)
	case Unrecognized:
		return v.JSON
	default:
		return domain.NoResponse
	}
}
