// Package gl implements gpucore.Device on OpenGL 4.1 core through go-gl.
//
// Every call must be made on the thread that owns the current GL context,
// after [New]. The device keeps one vertex array object; binding a vertex
// buffer re-specifies the attribute pointers from its gpucore.VertexLayout.
//
// Programs are plain GLSL 4.10. [BasicProgram], [TextProgram] and
// [BloomProgram] build the embedded programs that match the batching
// layer's vertex formats; [NewProgram] links any other pair of sources.
package gl
