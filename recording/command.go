package recording

import (
	"github.com/gogpu/gputypes"

	"github.com/gourcego/gfx/gpucore"
)

// CommandType identifies the type of a command.
// Each command type corresponds to one gpucore.Device or gpucore.Shader call.
type CommandType uint8

const (
	// Resource commands
	CmdCreateBuffer   CommandType = iota // Create a buffer object
	CmdDestroyBuffer                     // Destroy a buffer object
	CmdBufferData                        // Replace buffer storage
	CmdBufferSubData                     // Write into existing storage
	CmdCreateTexture                     // Upload an image as a texture
	CmdDestroyTexture                    // Release a texture

	// Bind commands
	CmdBindVertexBuffer // Bind vertex buffer and layout
	CmdBindIndexBuffer  // Bind index buffer
	CmdBindTexture      // Bind texture unit 0
	CmdBindShader       // Make a shader current
	CmdUnbindShader     // Clear the current shader
	CmdSetUniform       // Set a uniform value

	// Draw commands
	CmdDraw        // Non-indexed draw
	CmdDrawIndexed // Indexed draw
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdCreateBuffer:     "CreateBuffer",
	CmdDestroyBuffer:    "DestroyBuffer",
	CmdBufferData:       "BufferData",
	CmdBufferSubData:    "BufferSubData",
	CmdCreateTexture:    "CreateTexture",
	CmdDestroyTexture:   "DestroyTexture",
	CmdBindVertexBuffer: "BindVertexBuffer",
	CmdBindIndexBuffer:  "BindIndexBuffer",
	CmdBindTexture:      "BindTexture",
	CmdBindShader:       "BindShader",
	CmdUnbindShader:     "UnbindShader",
	CmdSetUniform:       "SetUniform",
	CmdDraw:             "Draw",
	CmdDrawIndexed:      "DrawIndexed",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// CreateBufferCommand records a CreateBuffer call.
type CreateBufferCommand struct {
	ID   gpucore.BufferID
	Kind gpucore.BufferKind
}

// Type implements Command.
func (CreateBufferCommand) Type() CommandType { return CmdCreateBuffer }

// DestroyBufferCommand records a DestroyBuffer call.
type DestroyBufferCommand struct {
	ID gpucore.BufferID
}

// Type implements Command.
func (DestroyBufferCommand) Type() CommandType { return CmdDestroyBuffer }

// BufferDataCommand records a storage (re)allocation.
type BufferDataCommand struct {
	ID gpucore.BufferID

	// Size is the allocated storage size in bytes.
	Size int

	// Len is the number of bytes written at offset 0.
	Len int
}

// Type implements Command.
func (BufferDataCommand) Type() CommandType { return CmdBufferData }

// BufferSubDataCommand records a write into existing storage.
type BufferSubDataCommand struct {
	ID     gpucore.BufferID
	Offset int
	Len    int
}

// Type implements Command.
func (BufferSubDataCommand) Type() CommandType { return CmdBufferSubData }

// CreateTextureCommand records a texture upload.
type CreateTextureCommand struct {
	Texture       gpucore.TextureID
	Width, Height int
}

// Type implements Command.
func (CreateTextureCommand) Type() CommandType { return CmdCreateTexture }

// DestroyTextureCommand records a texture release.
type DestroyTextureCommand struct {
	Texture gpucore.TextureID
}

// Type implements Command.
func (DestroyTextureCommand) Type() CommandType { return CmdDestroyTexture }

// BindVertexBufferCommand records a vertex buffer bind.
type BindVertexBufferCommand struct {
	ID     gpucore.BufferID
	Layout gpucore.VertexLayout
}

// Type implements Command.
func (BindVertexBufferCommand) Type() CommandType { return CmdBindVertexBuffer }

// BindIndexBufferCommand records an index buffer bind.
type BindIndexBufferCommand struct {
	ID     gpucore.BufferID
	Format gputypes.IndexFormat
}

// Type implements Command.
func (BindIndexBufferCommand) Type() CommandType { return CmdBindIndexBuffer }

// BindTextureCommand records a texture bind. Texture 0 is an unbind.
type BindTextureCommand struct {
	Texture gpucore.TextureID
}

// Type implements Command.
func (BindTextureCommand) Type() CommandType { return CmdBindTexture }

// BindShaderCommand records a shader becoming current.
type BindShaderCommand struct {
	Shader string
}

// Type implements Command.
func (BindShaderCommand) Type() CommandType { return CmdBindShader }

// UnbindShaderCommand records the current shader being cleared.
type UnbindShaderCommand struct {
	Shader string
}

// Type implements Command.
func (UnbindShaderCommand) Type() CommandType { return CmdUnbindShader }

// SetUniformCommand records a uniform write. Exactly one of Mat4 and Int is
// meaningful, as reported by IsMat4.
type SetUniformCommand struct {
	Shader   string
	Location int32
	IsMat4   bool
	Mat4     [16]float32
	Int      int32
}

// Type implements Command.
func (SetUniformCommand) Type() CommandType { return CmdSetUniform }

// DrawCommand records a Draw or DrawIndexed call together with the bind
// state it was issued under.
type DrawCommand struct {
	Indexed   bool
	Primitive gpucore.Primitive
	First     int
	Count     int
	State     BindState
}

// Type implements Command.
func (c DrawCommand) Type() CommandType {
	if c.Indexed {
		return CmdDrawIndexed
	}
	return CmdDraw
}

// BindState is a snapshot of what is bound on the device.
type BindState struct {
	VertexBuffer gpucore.BufferID
	Layout       gpucore.VertexLayout
	IndexBuffer  gpucore.BufferID
	IndexFormat  gputypes.IndexFormat
	Texture      gpucore.TextureID

	// Shader is the name of the current shader, empty when none is bound.
	Shader string
}

// AtRest reports whether nothing is bound.
func (s BindState) AtRest() bool {
	return s.VertexBuffer == gpucore.InvalidID &&
		s.IndexBuffer == gpucore.InvalidID &&
		s.Texture == 0 &&
		s.Shader == ""
}
