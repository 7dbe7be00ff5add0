package core

import "encoding/json"

// ConnectionParams describe a single endpoint. Name, Type and URL may
// hold {{env}}/{{exec}} templates which get resolved on Expand.
type ConnectionParams struct {
	ID   ConnectionID
	Name string
	Type string
	URL  string
}

// Expand returns a copy of the params with all template fields resolved.
// The receiver is left untouched so the unexpanded source can be persisted.
func (p *ConnectionParams) Expand() *ConnectionParams {
	out := *p

	out.ID = ConnectionID(expandOrDefault(string(p.ID)))
	out.Name = expandOrDefault(p.Name)
	out.Type = expandOrDefault(p.Type)
	out.URL = expandOrDefault(p.URL)

	return &out
}

func (p *ConnectionParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"id":   string(p.ID),
		"name": p.Name,
		"type": p.Type,
		"url":  p.URL,
	})
}
