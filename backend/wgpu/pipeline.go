package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gourcego/gfx/gpucore"
)

// pipelineKey identifies a render pipeline. Pipelines differ by program,
// vertex layout and topology; everything else is fixed per device.
type pipelineKey struct {
	shader   *Shader
	layout   string
	stride   uint32
	topology gputypes.PrimitiveTopology
}

// bindings holds the objects shared by every pipeline.
type bindings struct {
	uniformLayout  hal.BindGroupLayout
	textureLayout  hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout
	sampler        hal.Sampler
}

func (d *Device) createBindings() error {
	uniformLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gfx-uniforms",
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer: &gputypes.BufferBindingLayout{
				Type:             gputypes.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   uniformBlockSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform layout: %w", err)
	}
	d.bind.uniformLayout = uniformLayout

	textureLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gfx-texture",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create texture layout: %w", err)
	}
	d.bind.textureLayout = textureLayout

	pipelineLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gfx-pipeline-layout",
		BindGroupLayouts: []hal.BindGroupLayout{uniformLayout, textureLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	d.bind.pipelineLayout = pipelineLayout

	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "gfx-linear-clamp",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create sampler: %w", err)
	}
	d.bind.sampler = sampler
	return nil
}

func (d *Device) destroyBindings() {
	if d.bind.sampler != nil {
		d.device.DestroySampler(d.bind.sampler)
	}
	if d.bind.pipelineLayout != nil {
		d.device.DestroyPipelineLayout(d.bind.pipelineLayout)
	}
	if d.bind.textureLayout != nil {
		d.device.DestroyBindGroupLayout(d.bind.textureLayout)
	}
	if d.bind.uniformLayout != nil {
		d.device.DestroyBindGroupLayout(d.bind.uniformLayout)
	}
	d.bind = bindings{}
}

// topologyFor maps a gpucore primitive onto a WebGPU topology. Line loops,
// triangle fans and quads have no WebGPU equivalent.
func topologyFor(p gpucore.Primitive) (gputypes.PrimitiveTopology, bool) {
	switch p {
	case gpucore.PrimitivePoints:
		return gputypes.PrimitiveTopologyPointList, true
	case gpucore.PrimitiveLines:
		return gputypes.PrimitiveTopologyLineList, true
	case gpucore.PrimitiveLineStrip:
		return gputypes.PrimitiveTopologyLineStrip, true
	case gpucore.PrimitiveTriangles:
		return gputypes.PrimitiveTopologyTriangleList, true
	case gpucore.PrimitiveTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, true
	default:
		return 0, false
	}
}

// blendFor returns the color blend of a program. Bloom accumulates.
func blendFor(kind ShaderKind) gputypes.BlendState {
	if kind == ShaderBloom {
		additive := gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		}
		return gputypes.BlendState{Color: additive, Alpha: additive}
	}
	return gputypes.BlendStateAlpha()
}

// pipeline returns the cached pipeline for the key, building it on first use.
func (d *Device) pipeline(key pipelineKey, layout gpucore.VertexLayout) (hal.RenderPipeline, error) {
	if p, ok := d.pipelines[key]; ok {
		return p, nil
	}
	blend := blendFor(key.shader.kind)
	p, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("gfx-%s-%s-%s", key.shader.kind, layout.Label, key.topology),
		Layout: d.bind.pipelineLayout,
		Vertex: hal.VertexState{
			Module:     key.shader.module,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{layout.BufferLayout()},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  key.topology,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &hal.FragmentState{
			Module:     key.shader.module,
			EntryPoint: key.shader.fragment,
			Targets: []gputypes.ColorTargetState{{
				Format:    d.opts.format,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s pipeline: %w", key.shader.kind, err)
	}
	d.pipelines[key] = p
	d.logger.Debug("wgpu: pipeline created", "shader", key.shader.kind, "layout", layout.Label, "topology", key.topology)
	return p, nil
}

// dropPipelines releases every pipeline built from s.
func (d *Device) dropPipelines(s *Shader) {
	for key, p := range d.pipelines {
		if key.shader != s {
			continue
		}
		delete(d.pipelines, key)
		d.retire(func() { d.device.DestroyRenderPipeline(p) })
	}
}
