package mock

import "time"

// Config represents the mock country API configuration
type Config struct {
	Host     string `json:"host" yaml:"host"`                             // Server host (default: localhost)
	Port     int    `json:"port" yaml:"port"`                             // Server port (default: 8089)
	Fixtures string `json:"fixtures,omitempty" yaml:"fixtures,omitempty"` // Country fixture file, embedded set when empty
	Delay    int    `json:"delay,omitempty" yaml:"delay,omitempty"`       // Response delay in milliseconds
	FailWith int    `json:"failWith,omitempty" yaml:"failWith,omitempty"` // Force this status on every request
	Logging  bool   `json:"logging" yaml:"logging"`                       // Keep a request log
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Query     string        `json:"query"`
	Fields    []string      `json:"fields,omitempty"`
	Status    int           `json:"status"`
	Matches   int           `json:"matches"`
	Duration  time.Duration `json:"duration"`
}

// notFound is the body the country API sends when nothing matches
type notFound struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
