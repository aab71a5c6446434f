package gl

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gourcego/gfx/gpucore"
)

var (
	//go:embed shaders/basic.vert
	basicVert string
	//go:embed shaders/basic.frag
	basicFrag string
	//go:embed shaders/text.frag
	textFrag string
	//go:embed shaders/bloom.vert
	bloomVert string
	//go:embed shaders/bloom.frag
	bloomFrag string
)

// Program is a linked GLSL program. It implements gpucore.Shader.
type Program struct {
	id        uint32
	additive  bool
	locations map[string]int32
}

// Compile-time interface check.
var _ gpucore.Shader = (*Program)(nil)

// NewProgram compiles and links a vertex and fragment shader.
func NewProgram(vs, fs string) (*Program, error) {
	vert, err := compileShader(vs, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("gl: vertex shader: %w", err)
	}
	defer gl.DeleteShader(vert)
	frag, err := compileShader(fs, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("gl: fragment shader: %w", err)
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(id, logLen, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("gl: link failed: %s", strings.TrimRight(log, "\x00"))
	}
	return &Program{id: id, locations: make(map[string]int32)}, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// BasicProgram links the colored, optionally textured program.
func BasicProgram() (*Program, error) { return NewProgram(basicVert, basicFrag) }

// TextProgram links the glyph program, which reads coverage from alpha.
func TextProgram() (*Program, error) { return NewProgram(basicVert, textFrag) }

// BloomProgram links the additive glow program for bloom vertices.
func BloomProgram() (*Program, error) {
	p, err := NewProgram(bloomVert, bloomFrag)
	if err != nil {
		return nil, err
	}
	p.additive = true
	return p, nil
}

// Ready implements gpucore.Shader.
func (p *Program) Ready() bool { return p.id != 0 }

// Bind implements gpucore.Shader. Additive programs switch the blend
// function until Unbind.
func (p *Program) Bind() {
	gl.UseProgram(p.id)
	if p.additive {
		gl.BlendFunc(gl.ONE, gl.ONE)
	}
}

// Unbind implements gpucore.Shader.
func (p *Program) Unbind() {
	if p.additive {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	gl.UseProgram(0)
}

// UniformLocation implements gpucore.Shader. Lookups are cached.
func (p *Program) UniformLocation(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

// SetMat4 implements gpucore.Shader.
func (p *Program) SetMat4(loc int32, m *[16]float32) {
	if loc < 0 {
		return
	}
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// SetInt implements gpucore.Shader.
func (p *Program) SetInt(loc int32, v int32) {
	if loc < 0 {
		return
	}
	gl.Uniform1i(loc, v)
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
