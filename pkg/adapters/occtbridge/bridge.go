// Package occtbridge drives an out-of-process B-rep kernel worker over a
// JSON-lines protocol on stdin/stdout. Each kernel call is one
// request/response pair; solids and edges stay inside the worker and are
// referenced by opaque handle IDs.
//
// One worker process is started per session, which also enforces the
// non-reentrancy assumption: a kernel instance sees at most one composition
// at a time.
package occtbridge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"

	"github.com/ateliers3d/flacon/pkg/domain"
	"github.com/ateliers3d/flacon/pkg/ports"
)

// Provider spawns one kernel worker process per session.
type Provider struct {
	command string
	args    []string
}

// NewProvider configures the worker command. The command must speak the
// bridge protocol on stdin/stdout.
func NewProvider(command string, args ...string) *Provider {
	return &Provider{command: command, args: args}
}

// Open starts the worker and wires a session to its pipes.
func (p *Provider) Open(ctx context.Context) (ports.KernelSession, error) {
	cmd := exec.CommandContext(ctx, p.command, p.args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open worker stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start kernel worker %q: %w", p.command, err)
	}

	session := NewSessionFromIO(stdout, stdin)
	session.cmd = cmd
	session.stdin = stdin
	return session, nil
}

// request is one protocol message to the worker.
type request struct {
	Op   string         `json:"op"`
	Args map[string]any `json:"args,omitempty"`
}

// response is the worker's reply. Exactly one of the payload fields is set
// depending on the operation.
type response struct {
	OK    bool       `json:"ok"`
	Error string     `json:"error,omitempty"`
	ID    string     `json:"id,omitempty"`
	IDs   []string   `json:"ids,omitempty"`
	Min   [3]float64 `json:"min,omitempty"`
	Max   [3]float64 `json:"max,omitempty"`
}

// handle references a solid or edge living in the worker.
type handle struct {
	id string
}

// Session is a live connection to one worker process.
type Session struct {
	enc    *json.Encoder
	dec    *json.Decoder
	cmd    *exec.Cmd
	stdin  io.Closer
	closed bool
}

// NewSessionFromIO builds a session over arbitrary reader/writer pairs.
// Production sessions come from Provider.Open; this exists so the protocol
// can be exercised against an in-process fake worker.
func NewSessionFromIO(r io.Reader, w io.Writer) *Session {
	return &Session{
		enc: json.NewEncoder(w),
		dec: json.NewDecoder(bufio.NewReader(r)),
	}
}

// Close asks the worker to quit and reaps the process.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	// Best effort: the worker exits on "quit" or on stdin close.
	_ = s.enc.Encode(request{Op: "quit"})
	if s.stdin != nil {
		_ = s.stdin.Close()
	}
	if s.cmd != nil {
		return s.cmd.Wait()
	}
	return nil
}

func (s *Session) call(op string, args map[string]any) (response, error) {
	if s.closed {
		return response{}, domain.ErrKernelClosed
	}
	if err := s.enc.Encode(request{Op: op, Args: args}); err != nil {
		return response{}, fmt.Errorf("kernel %s: write: %w", op, err)
	}
	var resp response
	if err := s.dec.Decode(&resp); err != nil {
		return response{}, fmt.Errorf("kernel %s: read: %w", op, err)
	}
	if !resp.OK {
		return response{}, fmt.Errorf("kernel %s: %s", op, resp.Error)
	}
	return resp, nil
}

func solidID(s ports.Solid) (string, error) {
	h, ok := s.(handle)
	if !ok {
		return "", fmt.Errorf("solid does not belong to this kernel session")
	}
	return h.id, nil
}

func axisArgs(axis ports.Axis) map[string]any {
	return map[string]any{
		"origin": axis.Origin,
		"dir":    axis.Dir,
	}
}

// Cylinder builds a solid cylinder in the worker.
func (s *Session) Cylinder(axis ports.Axis, radius, height float64) (ports.Solid, error) {
	args := axisArgs(axis)
	args["radius"] = radius
	args["height"] = height
	resp, err := s.call("cylinder", args)
	if err != nil {
		return nil, err
	}
	return handle{id: resp.ID}, nil
}

// Cone builds a frustum in the worker.
func (s *Session) Cone(axis ports.Axis, baseRadius, topRadius, height float64) (ports.Solid, error) {
	args := axisArgs(axis)
	args["radius1"] = baseRadius
	args["radius2"] = topRadius
	args["height"] = height
	resp, err := s.call("cone", args)
	if err != nil {
		return nil, err
	}
	return handle{id: resp.ID}, nil
}

// Translate applies a rigid translation.
func (s *Session) Translate(sol ports.Solid, dx, dy, dz float64) (ports.Solid, error) {
	id, err := solidID(sol)
	if err != nil {
		return nil, err
	}
	resp, err := s.call("translate", map[string]any{
		"id": id, "vector": [3]float64{dx, dy, dz},
	})
	if err != nil {
		return nil, err
	}
	return handle{id: resp.ID}, nil
}

// RotateZ rotates about the main axis at the origin.
func (s *Session) RotateZ(sol ports.Solid, radians float64) (ports.Solid, error) {
	id, err := solidID(sol)
	if err != nil {
		return nil, err
	}
	resp, err := s.call("rotate_z", map[string]any{"id": id, "angle": radians})
	if err != nil {
		return nil, err
	}
	return handle{id: resp.ID}, nil
}

// Fuse performs a boolean union.
func (s *Session) Fuse(a, b ports.Solid) (ports.Solid, error) {
	return s.boolean("fuse", a, b)
}

// Cut performs a boolean subtraction.
func (s *Session) Cut(base, tool ports.Solid) (ports.Solid, error) {
	return s.boolean("cut", base, tool)
}

func (s *Session) boolean(op string, a, b ports.Solid) (ports.Solid, error) {
	idA, err := solidID(a)
	if err != nil {
		return nil, err
	}
	idB, err := solidID(b)
	if err != nil {
		return nil, err
	}
	resp, err := s.call(op, map[string]any{"a": idA, "b": idB})
	if err != nil {
		return nil, err
	}
	return handle{id: resp.ID}, nil
}

// Edges enumerates the edges of a solid as worker-side handles.
func (s *Session) Edges(sol ports.Solid) ([]ports.Edge, error) {
	id, err := solidID(sol)
	if err != nil {
		return nil, err
	}
	resp, err := s.call("edges", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	edges := make([]ports.Edge, len(resp.IDs))
	for i, edgeID := range resp.IDs {
		edges[i] = handle{id: edgeID}
	}
	return edges, nil
}

// filletBuilder accumulates registrations locally and ships them as one
// fillet operation on Build.
type filletBuilder struct {
	session *Session
	solid   string
	regs    []map[string]any
}

func (b *filletBuilder) Add(radius float64, edge ports.Edge) {
	h, ok := edge.(handle)
	if !ok {
		return
	}
	b.regs = append(b.regs, map[string]any{"edge": h.id, "radius": radius})
}

func (b *filletBuilder) Build() (ports.Solid, error) {
	resp, err := b.session.call("fillet", map[string]any{
		"id": b.solid, "edges": b.regs,
	})
	if err != nil {
		return nil, err
	}
	return handle{id: resp.ID}, nil
}

// Fillet starts a fillet operation over the solid.
func (s *Session) Fillet(sol ports.Solid) (ports.FilletBuilder, error) {
	id, err := solidID(sol)
	if err != nil {
		return nil, err
	}
	return &filletBuilder{session: s, solid: id}, nil
}

// BoundingBox asks the worker for the axis-aligned bounds.
func (s *Session) BoundingBox(sol ports.Solid) (domain.BoundingBox, error) {
	id, err := solidID(sol)
	if err != nil {
		return domain.BoundingBox{}, err
	}
	resp, err := s.call("bbox", map[string]any{"id": id})
	if err != nil {
		return domain.BoundingBox{}, err
	}
	return domain.NewBoundingBox(resp.Min, resp.Max), nil
}

// ExportSTEP serializes the solid to a STEP file in the worker.
func (s *Session) ExportSTEP(sol ports.Solid, path string) error {
	return s.export("export_step", sol, map[string]any{"path": path})
}

// ExportSTL meshes and serializes the solid to an STL file in the worker.
func (s *Session) ExportSTL(sol ports.Solid, path string, deflection float64) error {
	return s.export("export_stl", sol, map[string]any{"path": path, "deflection": deflection})
}

// ExportBREP serializes the solid to the kernel's native format.
func (s *Session) ExportBREP(sol ports.Solid, path string) error {
	return s.export("export_brep", sol, map[string]any{"path": path})
}

func (s *Session) export(op string, sol ports.Solid, args map[string]any) error {
	id, err := solidID(sol)
	if err != nil {
		return err
	}
	args["id"] = id
	_, err = s.call(op, args)
	return err
}
