package vapi

import "encoding/json"

// Request is the batched tool-call envelope posted by the voice platform.
type Request struct {
	Calls []ToolCall `json:"calls"`
}

// ToolCall is one unit of the batch, correlated to its result by ToolCallID.
type ToolCall struct {
	ToolCallID string       `json:"toolCallId"`
	Function   FunctionCall `json:"function"`
}

// FunctionCall names the requested operation and carries its arguments.
type FunctionCall struct {
	Name      string    `json:"name"`
	Arguments Arguments `json:"arguments"`
}

// Arguments is the loosely typed argument mapping of one tool call. The
// platform sends it either as a JSON object or as a string containing JSON;
// an undecodable string degrades to an empty mapping rather than failing
// the call outright.
type Arguments map[string]any

func (a *Arguments) UnmarshalJSON(data []byte) error {
	var asMap map[string]any
	if err := json.Unmarshal(data, &asMap); err == nil {
		*a = asMap
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(asString), &asMap); err != nil {
		*a = Arguments{}
		return nil
	}
	*a = asMap
	return nil
}

// Response is the batch reply. Every input call gets exactly one result, in
// input order, regardless of individual failures.
type Response struct {
	Results []CallResult `json:"results"`
}

// CallResult pairs a call identifier with its single-line result string.
type CallResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}
