package fireball

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// noiseGLSL is shared by both stages. The functions must match noise.go
// exactly: vertex displacement, fragment cracking, and host-side tests all
// sample the same field.
const noiseGLSL = `
float hash3(vec3 p) {
    return fract(sin(dot(p, vec3(12.9898, 78.233, 37.719))) * 43758.5453);
}

float valueNoise3(vec3 p) {
    vec3 i = floor(p);
    vec3 f = fract(p);
    vec3 w = f * f * (3.0 - 2.0 * f);

    float c000 = hash3(i);
    float c100 = hash3(i + vec3(1.0, 0.0, 0.0));
    float c010 = hash3(i + vec3(0.0, 1.0, 0.0));
    float c110 = hash3(i + vec3(1.0, 1.0, 0.0));
    float c001 = hash3(i + vec3(0.0, 0.0, 1.0));
    float c101 = hash3(i + vec3(1.0, 0.0, 1.0));
    float c011 = hash3(i + vec3(0.0, 1.0, 1.0));
    float c111 = hash3(i + vec3(1.0, 1.0, 1.0));

    float x00 = mix(c000, c100, w.x);
    float x10 = mix(c010, c110, w.x);
    float x01 = mix(c001, c101, w.x);
    float x11 = mix(c011, c111, w.x);

    return mix(mix(x00, x10, w.y), mix(x01, x11, w.y), w.z);
}

float fbm(vec3 p, int octaves) {
    float sum = 0.0;
    float amp = 0.5;
    float freq = 1.0;
    for (int i = 0; i < 8; i++) {
        if (i >= octaves) break;
        sum += amp * valueNoise3(p * freq);
        amp *= 0.5;
        freq *= 2.02;
    }
    return sum;
}
`

const fireballVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;

uniform mat4 u_Model;
uniform mat4 u_ViewProj;
uniform float u_Time;
uniform int u_Octaves;
uniform float u_CoreLowAmp;
uniform float u_CoreHiAmp;
uniform float u_CoreScale;
uniform float u_FlameNoiseScale;
uniform float u_FlameHiAmp;
uniform float u_FlameLift;
uniform vec3 u_UpDir;
uniform vec2 u_MouseNDC;
uniform float u_MouseStrength;
uniform float u_MouseFalloff;
uniform float u_MouseOn;
uniform float u_ShellOffset;
uniform float u_GlowOffset;
uniform float u_SceneScale;
uniform int u_Pass;
` + noiseGLSL + `
out vec3 vNormal;
out vec3 vWorldPos;
out float vFbm;
out float vHeight;
out float vRadial;
out float vRim;
out float vGrain;
out float vUpAlign;

void main() {
    vec3 p = aPos * u_SceneScale;
    vec3 n = normalize(aPos);
    vec3 q = p * u_CoreScale;

    // Fixed low-frequency rock plus tiny jitter; time-invariant so the
    // body reads as solid magma.
    float core = u_CoreLowAmp * (0.70 * sin(0.85 * q.y) + 0.50 * cos(0.60 * q.z) + 0.40 * sin(0.60 * q.x))
               + u_CoreHiAmp * (valueNoise3(q * 6.0) - 0.5);

    float offset = u_Pass == 1 ? u_ShellOffset : (u_Pass == 2 ? u_GlowOffset : 0.0);

    // Cursor influence is measured on the pre-mouse displaced point. The
    // core pass is immune: the solid body must not wobble.
    vec3 pre = p + n * (core + offset);
    vec4 preClip = u_ViewProj * u_Model * vec4(pre, 1.0);
    vec2 preNDC = preClip.xy / max(preClip.w, 1e-5);
    float falloff = max(u_MouseFalloff, 1e-3);
    float d = distance(preNDC, u_MouseNDC);
    float infl = exp(-(d / falloff) * (d / falloff)) * u_MouseStrength * u_MouseOn
               * (u_Pass == 0 ? 0.0 : 1.0);

    vec3 up = u_UpDir;
    vec3 pull = vec3(0.0);
    if (infl > 0.0) {
        vec3 ref = abs(n.y) > 0.95 ? vec3(1.0, 0.0, 0.0) : vec3(0.0, 1.0, 0.0);
        vec3 tanU = normalize(cross(ref, n));
        vec3 tanV = cross(n, tanU);
        vec2 toMouse = u_MouseNDC - preNDC;
        float l = length(toMouse);
        if (l > 1e-6) {
            pull = normalize(tanU * (toMouse.x / l) + tanV * (toMouse.y / l));
            up = normalize(mix(up, pull, clamp(infl, 0.0, 1.0)));
        }
    }

    float disp = core;
    float f = 0.0;
    if (u_Pass != 0) {
        float topW = pow(clamp(dot(n, up), 0.0, 1.0), 1.6);
        f = fbm(p * u_FlameNoiseScale + up * 0.7 * u_Time, u_Octaves);
        disp += topW * (u_FlameHiAmp * (f - 0.5) + u_FlameLift);
    }

    vec3 pos = p + n * (disp + offset) + pull * 0.12 * infl;
    vec4 world = u_Model * vec4(pos, 1.0);
    gl_Position = u_ViewProj * world;

    vNormal = n;
    vWorldPos = world.xyz;
    vFbm = f;
    vHeight = disp + offset;
    vRadial = exp(-2.0 * max(disp + offset, 0.0));
    vec2 ndc = gl_Position.xy / max(gl_Position.w, 1e-5);
    vRim = smoothstep(0.55, 0.95, length(ndc));
    vGrain = valueNoise3(pos * 24.0);
    vUpAlign = dot(n, up);
}
` + "\x00"

const fireballFragSrc = `#version 410 core

uniform float u_Time;
uniform int u_Pass;
uniform float u_BandCount;
uniform float u_Exposure;
uniform float u_Wash;
uniform float u_GrainAmp;
uniform float u_CoreHot;
uniform float u_GlowStrength;
uniform float u_AudioBass;
uniform float u_AudioMid;
uniform float u_AudioTreble;
uniform float u_AudioBeat;
` + noiseGLSL + `
in vec3 vNormal;
in vec3 vWorldPos;
in float vFbm;
in float vHeight;
in float vRadial;
in float vRim;
in float vGrain;
in float vUpAlign;

out vec4 FragColor;

// Dark ember -> red -> orange -> yellow -> white.
vec3 fireColor(float t) {
    t = clamp(t, 0.0, 1.0);
    vec3 c = mix(vec3(0.05, 0.01, 0.0), vec3(0.85, 0.12, 0.02), smoothstep(0.0, 0.35, t));
    c = mix(c, vec3(1.0, 0.55, 0.08), smoothstep(0.35, 0.7, t));
    c = mix(c, vec3(1.0, 0.95, 0.7), smoothstep(0.7, 1.0, t));
    return c;
}

void main() {
    vec3 col;
    float alpha = 1.0;

    if (u_Pass == 0) {
        // Magma body: static cracks from the shared noise field, banded so
        // the surface reads as cooled plates over hot rock.
        float crack = valueNoise3(vWorldPos * 6.0);
        float bands = floor(crack * u_BandCount) / max(u_BandCount, 1.0);
        float heat = mix(bands, 1.0, u_CoreHot * smoothstep(0.55, 0.95, crack));
        col = fireColor(heat);
        col += (vGrain - 0.5) * u_GrainAmp;
        col = mix(col, vec3(1.0, 0.45, 0.1), vRim * 0.35);
    } else if (u_Pass == 1) {
        // Flame shell: flicker from the accumulated fbm, biased toward the
        // up pole, faded by the radial falloff. Additive blend.
        float flame = clamp(vFbm * 1.6 - 0.25, 0.0, 1.0) * clamp(vUpAlign, 0.0, 1.0);
        col = fireColor(flame + u_AudioTreble * 0.15);
        alpha = flame * vRadial * (0.55 + 0.25 * u_AudioMid);
    } else {
        // Outer glow: soft rim halo, brightness tracks bass and beat.
        float halo = vRadial * vRadial * u_GlowStrength;
        col = fireColor(0.5 + 0.2 * u_AudioBass) * (0.6 + 0.4 * u_AudioBeat);
        alpha = halo * 0.22 * (1.0 + vRim);
    }

    col *= u_Exposure;
    col = mix(col, vec3(dot(col, vec3(0.333))), u_Wash * 0.5);
    FragColor = vec4(col, alpha);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
