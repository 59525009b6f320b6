package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/promptgate/promptgate/pkg/scanner"
	"github.com/promptgate/promptgate/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server validates documents streamed over NDJSON. Editors and CI wrappers
// keep one server alive instead of paying engine startup per document.
type Server struct {
	engine  *scanner.Engine
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(engine *scanner.Engine, in io.Reader, out io.Writer) *Server {
	return &Server{
		engine:  engine,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	// Send ready signal
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	switch req.Type {
	case "validate":
		s.handleValidate(req.Payload)
	case "validate_batch":
		s.handleValidateBatch(req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	data, _ := json.Marshal(ReadyData{Version: Version})
	s.encoder.Encode(Response{
		Success: true,
		Type:    "ready",
		Data:    data,
	})
}

func (s *Server) handleValidate(payload json.RawMessage) {
	var p ValidatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("validate", err.Error())
		return
	}

	result := s.engine.ValidateContent(p.Path, p.Content)

	data, _ := json.Marshal(result)
	s.encoder.Encode(Response{
		Success: true,
		Type:    "validate",
		Data:    data,
	})
}

func (s *Server) handleValidateBatch(payload json.RawMessage) {
	var p ValidateBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("validate_batch", err.Error())
		return
	}

	results := make([]*types.ValidationResult, 0, len(p.Items))
	for _, item := range p.Items {
		results = append(results, s.engine.ValidateContent(item.Path, item.Content))
	}

	data, _ := json.Marshal(results)
	s.encoder.Encode(Response{
		Success: true,
		Type:    "validate_batch",
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
