package wgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gourcego/gfx/gpucore"
)

//go:embed shaders/basic.wgsl
var basicShaderWGSL string

//go:embed shaders/bloom.wgsl
var bloomShaderWGSL string

// ShaderKind selects one of the embedded programs.
type ShaderKind uint8

// Shader kinds.
const (
	// ShaderBasic draws colored geometry, modulated by the bound texture
	// when u_use_texture is set.
	ShaderBasic ShaderKind = iota + 1

	// ShaderText draws colored geometry with coverage from the alpha
	// channel of the bound texture.
	ShaderText

	// ShaderBloom draws additive radial glows from bloom vertices.
	ShaderBloom
)

// String returns the string representation of ShaderKind.
func (k ShaderKind) String() string {
	switch k {
	case ShaderBasic:
		return "basic"
	case ShaderText:
		return "text"
	case ShaderBloom:
		return "bloom"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// source returns the WGSL source and fragment entry point of the kind.
func (k ShaderKind) source() (wgsl, fragment string, ok bool) {
	switch k {
	case ShaderBasic:
		return basicShaderWGSL, "fs_main", true
	case ShaderText:
		return basicShaderWGSL, "fs_text", true
	case ShaderBloom:
		return bloomShaderWGSL, "fs_main", true
	default:
		return "", "", false
	}
}

// uniforms returns the uniform names in location order.
func (k ShaderKind) uniforms() []string {
	if k == ShaderBloom {
		return []string{gpucore.UniformMVP}
	}
	return []string{gpucore.UniformMVP, gpucore.UniformUseTexture, gpucore.UniformTexture}
}

// Uniform block layout shared by every program.
const (
	uniformBlockSize = 80
	useTextureOffset = 64
)

// Shader is a gpucore.Shader backed by a hal shader module.
//
// Uniform writes go to a CPU copy of the uniform block. The block is copied
// into the device's uniform ring at the next draw after it changed.
type Shader struct {
	dev      *Device
	kind     ShaderKind
	module   hal.ShaderModule
	fragment string
	names    []string

	block [uniformBlockSize]byte
	dirty bool

	// Ring slot of the last upload and the pass it was made in.
	offset uint32
	pass   uint64
}

// NewShader compiles one of the embedded programs. The WGSL is validated
// and translated to SPIR-V with naga; both forms are handed to the HAL.
func (d *Device) NewShader(kind ShaderKind) (*Shader, error) {
	src, _, ok := kind.source()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShader, int(kind))
	}
	spirv, err := compileWGSL(src)
	if err != nil {
		return nil, fmt.Errorf("wgpu: %s shader: %w: %w", kind, ErrShaderNotReady, err)
	}
	return d.newShader(kind, spirv)
}

func (d *Device) newShader(kind ShaderKind, spirv []uint32) (*Shader, error) {
	src, fragment, ok := kind.source()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShader, int(kind))
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "gfx-" + kind.String(),
		Source: hal.ShaderSource{
			WGSL:  src,
			SPIRV: spirv,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s shader module: %w", kind, err)
	}
	s := &Shader{
		dev:      d,
		kind:     kind,
		module:   module,
		fragment: fragment,
		names:    kind.uniforms(),
		dirty:    true,
	}
	d.shaders = append(d.shaders, s)
	return s, nil
}

// compileWGSL validates WGSL and returns it as SPIR-V words.
func compileWGSL(src string) ([]uint32, error) {
	b, err := naga.Compile(src)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words, nil
}

// Kind returns the program kind.
func (s *Shader) Kind() ShaderKind { return s.kind }

// Ready implements gpucore.Shader.
func (s *Shader) Ready() bool { return s.module != nil }

// Bind implements gpucore.Shader.
func (s *Shader) Bind() { s.dev.state.shader = s }

// Unbind implements gpucore.Shader.
func (s *Shader) Unbind() {
	if s.dev.state.shader == s {
		s.dev.state.shader = nil
	}
}

// UniformLocation implements gpucore.Shader.
func (s *Shader) UniformLocation(name string) int32 {
	for i, n := range s.names {
		if n == name {
			return int32(i) //nolint:gosec // at most three uniforms
		}
	}
	return -1
}

// SetMat4 implements gpucore.Shader.
func (s *Shader) SetMat4(loc int32, m *[16]float32) {
	if s.uniformName(loc) != gpucore.UniformMVP {
		s.dev.logger.Debug("wgpu: mat4 uniform ignored", "shader", s.kind, "location", loc)
		return
	}
	for i, f := range m {
		binary.LittleEndian.PutUint32(s.block[i*4:], math.Float32bits(f))
	}
	s.dirty = true
}

// SetInt implements gpucore.Shader.
func (s *Shader) SetInt(loc int32, v int32) {
	switch s.uniformName(loc) {
	case gpucore.UniformUseTexture:
		binary.LittleEndian.PutUint32(s.block[useTextureOffset:], uint32(v)) //nolint:gosec // bit pattern
		s.dirty = true
	case gpucore.UniformTexture:
		// Only unit 0 exists.
		if v != 0 {
			s.dev.logger.Debug("wgpu: sampler unit ignored", "shader", s.kind, "unit", v)
		}
	default:
		s.dev.logger.Debug("wgpu: int uniform ignored", "shader", s.kind, "location", loc)
	}
}

// Destroy releases the shader module and the pipelines built from it.
// Inside a frame the release is deferred to EndFrame.
func (s *Shader) Destroy() {
	if s.module == nil {
		return
	}
	s.Unbind()
	s.dev.dropPipelines(s)
	module := s.module
	s.dev.retire(func() { s.dev.device.DestroyShaderModule(module) })
	s.module = nil
	for i, other := range s.dev.shaders {
		if other == s {
			s.dev.shaders = append(s.dev.shaders[:i], s.dev.shaders[i+1:]...)
			break
		}
	}
}

func (s *Shader) uniformName(loc int32) string {
	if loc < 0 || int(loc) >= len(s.names) {
		return ""
	}
	return s.names[loc]
}
