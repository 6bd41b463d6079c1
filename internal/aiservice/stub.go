package aiservice

import (
	"context"
	"sync"
)

// Stub is a scripted Service. Zero values answer with empty text.
type Stub struct {
	Description  string
	Structured   string
	DescribeErr  error
	StructureErr error
	Unavailable  bool

	mu                sync.Mutex
	audioRequests     []AudioRequest
	structureRequests []StructureRequest
}

// Available implements Service.
func (s *Stub) Available() bool { return !s.Unavailable }

// DescribeAudio implements Service.
func (s *Stub) DescribeAudio(_ context.Context, req AudioRequest) (string, error) {
	s.mu.Lock()
	s.audioRequests = append(s.audioRequests, req)
	s.mu.Unlock()
	if s.DescribeErr != nil {
		return "", s.DescribeErr
	}
	return s.Description, nil
}

// StructureDescription implements Service.
func (s *Stub) StructureDescription(_ context.Context, req StructureRequest) (string, error) {
	s.mu.Lock()
	s.structureRequests = append(s.structureRequests, req)
	s.mu.Unlock()
	if s.StructureErr != nil {
		return "", s.StructureErr
	}
	return s.Structured, nil
}

// AudioRequests returns the recorded DescribeAudio calls.
func (s *Stub) AudioRequests() []AudioRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AudioRequest(nil), s.audioRequests...)
}

// StructureRequests returns the recorded StructureDescription calls.
func (s *Stub) StructureRequests() []StructureRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StructureRequest(nil), s.structureRequests...)
}
