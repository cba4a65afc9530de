package mcp

import (
	"encoding/json"
)

// Transport type constants for MCP server communication.
const (
	// TypeStdio indicates local process communication via stdin/stdout.
	// This is the default when the type field is absent.
	TypeStdio = "stdio"

	// TypeHTTP indicates a remote server using streamable HTTP.
	TypeHTTP = "http"

	// TypeSSE indicates a remote server using Server-Sent Events.
	TypeSSE = "sse"
)

// Spec is the connection definition for an MCP server, shared across
// all supported clients.
type Spec struct {
	// Type is the transport discriminant: "stdio", "http" or "sse".
	// Empty means stdio.
	Type string `json:"type,omitempty"`

	// Command is the executable for stdio servers.
	Command string `json:"command,omitempty"`

	// Args are command-line arguments passed to Command.
	Args []string `json:"args,omitempty"`

	// Cwd is the working directory for the server process.
	Cwd string `json:"cwd,omitempty"`

	// Env contains environment variables for the server process.
	Env map[string]string `json:"env,omitempty"`

	// URL is the endpoint for http and sse servers.
	URL string `json:"url,omitempty"`

	// Headers contains HTTP headers sent to remote servers.
	Headers map[string]string `json:"headers,omitempty"`

	// unknownFields stores JSON fields not explicitly defined above so
	// that specs written by newer tools survive a round trip untouched.
	unknownFields map[string]json.RawMessage
}

// EffectiveType returns the transport with the stdio default applied.
func (s *Spec) EffectiveType() string {
	if s.Type == "" {
		return TypeStdio
	}
	return s.Type
}

// IsRemote returns true for http and sse transports.
func (s *Spec) IsRemote() bool {
	t := s.EffectiveType()
	return t == TypeHTTP || t == TypeSSE
}

// Unknown returns the preserved unknown fields. The returned map must not
// be mutated.
func (s *Spec) Unknown() map[string]json.RawMessage {
	return s.unknownFields
}

// SetUnknown replaces the preserved unknown fields.
func (s *Spec) SetUnknown(fields map[string]json.RawMessage) {
	if len(fields) == 0 {
		s.unknownFields = nil
		return
	}
	s.unknownFields = fields
}

// Clone returns a deep copy of the spec.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	out := &Spec{
		Type:    s.Type,
		Command: s.Command,
		Cwd:     s.Cwd,
		URL:     s.URL,
	}
	if s.Args != nil {
		out.Args = append([]string(nil), s.Args...)
	}
	if s.Env != nil {
		out.Env = make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			out.Env[k] = v
		}
	}
	if s.Headers != nil {
		out.Headers = make(map[string]string, len(s.Headers))
		for k, v := range s.Headers {
			out.Headers[k] = v
		}
	}
	if s.unknownFields != nil {
		out.unknownFields = make(map[string]json.RawMessage, len(s.unknownFields))
		for k, v := range s.unknownFields {
			out.unknownFields[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// MarshalJSON implements json.Marshaler to include unknown fields in output.
func (s *Spec) MarshalJSON() ([]byte, error) {
	result := make(map[string]any)

	// Unknown fields first so known fields take precedence.
	for k, v := range s.unknownFields {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, err
		}
		result[k] = val
	}

	if s.Type != "" {
		result["type"] = s.Type
	}
	if s.Command != "" {
		result["command"] = s.Command
	}
	if len(s.Args) > 0 {
		result["args"] = s.Args
	}
	if s.Cwd != "" {
		result["cwd"] = s.Cwd
	}
	if len(s.Env) > 0 {
		result["env"] = s.Env
	}
	if s.URL != "" {
		result["url"] = s.URL
	}
	if len(s.Headers) > 0 {
		result["headers"] = s.Headers
	}

	return json.Marshal(result)
}

// UnmarshalJSON implements json.Unmarshaler to capture unknown fields.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["type"]; ok {
		if err := json.Unmarshal(v, &s.Type); err != nil {
			return err
		}
		delete(raw, "type")
	}
	if v, ok := raw["command"]; ok {
		if err := json.Unmarshal(v, &s.Command); err != nil {
			return err
		}
		delete(raw, "command")
	}
	if v, ok := raw["args"]; ok {
		if err := json.Unmarshal(v, &s.Args); err != nil {
			return err
		}
		delete(raw, "args")
	}
	if v, ok := raw["cwd"]; ok {
		if err := json.Unmarshal(v, &s.Cwd); err != nil {
			return err
		}
		delete(raw, "cwd")
	}
	if v, ok := raw["env"]; ok {
		if err := json.Unmarshal(v, &s.Env); err != nil {
			return err
		}
		delete(raw, "env")
	}
	if v, ok := raw["url"]; ok {
		if err := json.Unmarshal(v, &s.URL); err != nil {
			return err
		}
		delete(raw, "url")
	}
	if v, ok := raw["headers"]; ok {
		if err := json.Unmarshal(v, &s.Headers); err != nil {
			return err
		}
		delete(raw, "headers")
	}

	if len(raw) > 0 {
		s.unknownFields = raw
	} else {
		s.unknownFields = nil
	}

	return nil
}

// AppFlags records which clients a server is enabled for.
type AppFlags struct {
	Claude bool `json:"claude"`
	Codex  bool `json:"codex"`
	Gemini bool `json:"gemini"`
}

// Empty returns true when the server is enabled for no client.
func (f AppFlags) Empty() bool {
	return !f.Claude && !f.Codex && !f.Gemini
}

// Enabled reports the flag for the named client. Unknown clients are
// reported as disabled.
func (f AppFlags) Enabled(client string) bool {
	switch client {
	case "claude":
		return f.Claude
	case "codex":
		return f.Codex
	case "gemini":
		return f.Gemini
	}
	return false
}

// SetEnabled sets the flag for the named client. Unknown clients are
// ignored.
func (f *AppFlags) SetEnabled(client string, enabled bool) {
	switch client {
	case "claude":
		f.Claude = enabled
	case "codex":
		f.Codex = enabled
	case "gemini":
		f.Gemini = enabled
	}
}

// Server is the canonical record for one MCP server: the connection spec
// plus per-client enablement and descriptive metadata.
type Server struct {
	// ID is the stable identifier, used as the key in client config files.
	ID string `json:"id"`

	// Name is the human-readable display name. Defaults to ID.
	Name string `json:"name,omitempty"`

	// Spec is the connection definition.
	Spec *Spec `json:"server"`

	// Apps records which clients the server is currently enabled for.
	Apps AppFlags `json:"apps"`

	Description string   `json:"description,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
	Docs        string   `json:"docs,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// DisplayName returns Name, falling back to ID when unset.
func (s *Server) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
