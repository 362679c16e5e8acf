package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liliang-cn/aichat/internal/domain"
)

func formatBody(body string) string {
	return Format(Decode([]byte(body)))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Reply
	}{
		{"empty body", "", NoPayload{}},
		{"null", "null", NoPayload{}},
		{"false", "false", NoPayload{}},
		{"zero", "0", NoPayload{}},
		{"invalid json", "<html>oops</html>", NoPayload{}},
		{"text", `{"result":{"activities":"X"}}`, TextActivities{Text: "X"}},
		{"empty text", `{"result":{"activities":""}}`, TextActivities{Text: ""}},
		{"list", `{"result":{"activities":["a",1]}}`, ListActivities{Items: []string{"a", "1"}}},
		{"list of objects", `{"result":{"activities":[{"b": 2, "a": 1}, null, true]}}`,
			ListActivities{Items: []string{`{"b":2,"a":1}`, "null", "true"}}},
		{"object", `{"result":{"activities":{"k":"v"}}}`, ObjectActivities{JSON: "{\n  \"k\": \"v\"\n}"}},
		{"id", `{"id":"abc"}`, StartedRun{ID: "abc"}},
		{"workflow id", `{"workflowId":"wf-1"}`, StartedRun{ID: "wf-1"}},
		{"run id", `{"runId":42}`, StartedRun{ID: "42"}},
		{"id wins over run id", `{"runId":"r","id":"i"}`, StartedRun{ID: "i"}},
		{"null id falls through", `{"id":null,"runId":"r"}`, StartedRun{ID: "r"}},
		{"empty id stops lookup", `{"id":"","runId":"r"}`, Unrecognized{JSON: "{\n  \"id\": \"\",\n  \"runId\": \"r\"\n}"}},
		{"activities number", `{"result":{"activities":3},"id":"x"}`, StartedRun{ID: "x"}},
		{"object id", `{"id":{"n":1}}`, StartedRun{ID: "[object Object]"}},
		{"array id", `{"id":["a",null,2]}`, StartedRun{ID: "a,,2"}},
		{"result not an object", `{"result":"done"}`, Unrecognized{JSON: "{\n  \"result\": \"done\"\n}"}},
		{"empty object", `{}`, Unrecognized{JSON: "{}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode([]byte(tt.body)))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "X", formatBody(`{"result":{"activities":"X"}}`))
	assert.Equal(t, "a\n1", formatBody(`{"result":{"activities":["a",1]}}`))
	assert.Equal(t, "{\n  \"k\": \"v\",\n  \"a\": [\n    1\n  ]\n}",
		formatBody(`{"result":{"activities":{"k":"v","a":[1]}}}`))
	assert.Equal(t, "Workflow started. Id: run-7", formatBody(`{"runId":"run-7"}`))
	assert.Equal(t, "{}", formatBody(`{}`))
	assert.Equal(t, "{\n  \"status\": \"queued\"\n}", formatBody(`{"status":"queued"}`))
	assert.Equal(t, "{\n  \"a\": [],\n  \"o\": {}\n}", formatBody(`{"a":[],"o":{}}`))
	assert.Equal(t, `"hi"`, formatBody(`"hi"`))
	assert.Equal(t, domain.NoResponse, Format(Decode(nil)))
	assert.Equal(t, domain.NoResponse, formatBody("null"))
}

func TestFormatReserializesValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"trailing zero", `{"result":{"activities":["a",1.0]}}`, "a\n1"},
		{"exponent", `{"result":{"activities":["a",1e2]}}`, "a\n100"},
		{"small exponent", `{"result":{"activities":[1.5e-7,0.000001]}}`, "1.5e-7\n0.000001"},
		{"large exponent", `{"result":{"activities":[1e21,123456789012345680000]}}`, "1e+21\n123456789012345680000"},
		{"negative zero", `{"result":{"activities":[-0]}}`, "0"},
		{"overflow", `{"result":{"activities":[[1e400]]}}`, "[null]"},
		{"escaped slash", `{"k":"é\/"}`, "{\n  \"k\": \"é/\"\n}"},
		{"unicode escape", `{"k":"é<&>"}`, "{\n  \"k\": \"é<&>\"\n}"},
		{"control characters", `{"k":"a\tb\u0001"}`, "{\n  \"k\": \"a\\tb\\u0001\"\n}"},
		{"line separator", `{"k":" "}`, "{\n  \"k\": \" \"\n}"},
		{"id decimal", `{"id":1.50}`, "Workflow started. Id: 1.5"},
		{"duplicate key last wins", `{"result":{"activities":1},"result":{"activities":"X"}}`, "X"},
		{"duplicate key keeps position", `{"a":1,"b":2,"a":3}`, "{\n  \"a\": 3,\n  \"b\": 2\n}"},
		{"index keys first", `{"b":1,"2":2,"10":3,"01":4}`, "{\n  \"2\": 2,\n  \"10\": 3,\n  \"b\": 1,\n  \"01\": 4\n}"},
		{"whitespace dropped", `{"result":{"activities":[{ "a" : [ 1 , 2 ] }]}}`, `{"a":[1,2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatBody(tt.body))
		})
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	body := `{"result":{"activities":{"z":1,"y":{"x":[true,false]}}}}`
	first := formatBody(body)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, formatBody(body))
	}
}
