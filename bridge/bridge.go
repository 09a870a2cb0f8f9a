// Package bridge serves the desktop shell's IPC channels as newline-delimited
// JSON-RPC 2.0 over a reader/writer pair, normally stdin and stdout.
package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/teami-app/teami-backend/services"
)

// maxLineBytes bounds a single request line.
const maxLineBytes = 4 << 20

// MethodFunc handles one channel.
type MethodFunc func(ctx context.Context, req *Request) (any, error)

type Bridge struct {
	logger  zerolog.Logger
	methods map[string]MethodFunc
}

func New(svc services.Services) *Bridge {
	b := &Bridge{
		logger:  log.With().Str("component", "bridge").Logger(),
		methods: make(map[string]MethodFunc),
	}
	registerWorkspaceMethods(b, svc.Workspaces())
	registerProjectMethods(b, svc.Projects())
	return b
}

// Register binds a channel name to a handler, replacing any previous one.
func (b *Bridge) Register(method string, fn MethodFunc) {
	b.methods[method] = fn
}

// Methods lists the registered channel names.
func (b *Bridge) Methods() []string {
	names := make([]string, 0, len(b.methods))
	for name := range b.methods {
		names = append(names, name)
	}
	return names
}

// Serve handles requests one at a time in arrival order until in is exhausted
// or ctx is cancelled. Blank lines are skipped. Requests without an id are
// notifications and get no response.
func (b *Bridge) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReaderSize(in, 64*1024)
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	b.logger.Info().Int("methods", len(b.methods)).Msg("bridge ready")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, tooLong, err := readLine(reader)
		switch {
		case tooLong:
			b.logger.Warn().Int("limit", maxLineBytes).Msg("request line too long")
			resp := errorResponse(nullID, &protocolError{ErrCodeInvalidRequest, "Invalid Request: line too long"})
			if encErr := enc.Encode(resp); encErr != nil {
				return fmt.Errorf("write response: %w", encErr)
			}
		case len(bytes.TrimSpace(line)) > 0:
			resp, reply := b.Handle(ctx, line)
			if reply {
				if encErr := enc.Encode(resp); encErr != nil {
					return fmt.Errorf("write response: %w", encErr)
				}
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				b.logger.Info().Msg("bridge input closed")
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}
	}
}

// readLine reads up to and including the next newline. A line over
// maxLineBytes is consumed and reported as tooLong.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		var chunk []byte
		chunk, err = r.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLineBytes {
				tooLong, line = true, nil
			}
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return line, tooLong, err
		}
	}
}

// Handle runs a single request line. reply is false for notifications.
func (b *Bridge) Handle(ctx context.Context, line []byte) (resp Response, reply bool) {
	req, err := ParseRequest(line)
	if err != nil {
		b.logger.Warn().Err(err).Msg("rejected bridge request")
		return errorResponse(req.ID, err), true
	}
	reply = !req.notification

	logger := b.logger.With().Str("method", req.Method).Logger()
	fn, ok := b.methods[req.Method]
	if !ok {
		logger.Warn().Msg("unknown bridge method")
		return errorResponse(req.ID, &protocolError{ErrCodeMethodNotFound, "Method not found: " + req.Method}), reply
	}

	result, err := b.invoke(ctx, fn, req)
	if err != nil {
		obj := errorObject(err)
		event := logger.Warn()
		if obj.Code == ErrCodeInternalError {
			event = logger.Error()
		}
		event.Err(err).Int("code", obj.Code).Msg("bridge call failed")
		return Response{JSONRPC: Version, ID: req.ID, Error: obj}, reply
	}

	logger.Debug().Msg("bridge call completed")
	return successResponse(req.ID, result), reply
}

func (b *Bridge) invoke(ctx context.Context, fn MethodFunc, req *Request) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", req.Method, r)
		}
	}()
	return fn(ctx, req)
}
