package recording

import "github.com/gourcego/gfx/gpucore"

// Shader is a gpucore.Shader that records binds and uniform writes on its
// Device.
//
// Uniform locations are assigned in declaration order starting at 0. The
// default uniform set is the one the batching layer uses (u_mvp, u_texture,
// u_use_texture).
type Shader struct {
	name      string
	dev       *Device
	locations map[string]int32
	mat4      map[int32][16]float32
	ints      map[int32]int32

	// NotReady makes Ready report false, as for a program still loading.
	NotReady bool
}

// NewShader creates a recording shader. With no uniform names it exposes
// the standard batching uniforms.
func NewShader(dev *Device, name string, uniforms ...string) *Shader {
	if len(uniforms) == 0 {
		uniforms = []string{gpucore.UniformMVP, gpucore.UniformTexture, gpucore.UniformUseTexture}
	}
	s := &Shader{
		name:      name,
		dev:       dev,
		locations: make(map[string]int32, len(uniforms)),
		mat4:      make(map[int32][16]float32),
		ints:      make(map[int32]int32),
	}
	for i, u := range uniforms {
		s.locations[u] = int32(i) //nolint:gosec // uniform count is tiny
	}
	return s
}

// Name returns the shader name used in bind state snapshots.
func (s *Shader) Name() string { return s.name }

// Ready implements gpucore.Shader.
func (s *Shader) Ready() bool { return !s.NotReady }

// Bind implements gpucore.Shader.
func (s *Shader) Bind() {
	s.dev.state.Shader = s.name
	s.dev.record(BindShaderCommand{Shader: s.name})
}

// Unbind implements gpucore.Shader.
func (s *Shader) Unbind() {
	if s.dev.state.Shader == s.name {
		s.dev.state.Shader = ""
	}
	s.dev.record(UnbindShaderCommand{Shader: s.name})
}

// UniformLocation implements gpucore.Shader.
func (s *Shader) UniformLocation(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	return -1
}

// SetMat4 implements gpucore.Shader.
func (s *Shader) SetMat4(loc int32, m *[16]float32) {
	s.mat4[loc] = *m
	s.dev.record(SetUniformCommand{Shader: s.name, Location: loc, IsMat4: true, Mat4: *m})
}

// SetInt implements gpucore.Shader.
func (s *Shader) SetInt(loc int32, v int32) {
	s.ints[loc] = v
	s.dev.record(SetUniformCommand{Shader: s.name, Location: loc, Int: v})
}

// Mat4 returns the last value written to a named mat4 uniform.
func (s *Shader) Mat4(name string) ([16]float32, bool) {
	loc := s.UniformLocation(name)
	m, ok := s.mat4[loc]
	return m, ok
}

// Int returns the last value written to a named int uniform.
func (s *Shader) Int(name string) (int32, bool) {
	loc := s.UniformLocation(name)
	v, ok := s.ints[loc]
	return v, ok
}
