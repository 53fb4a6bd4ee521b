package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = colDiffuse.rgb * NdotL * 0.8;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), 48.0) * specularStrength * step(0.0, NdotL);
  finalColor = vec4(ambient.rgb * colDiffuse.rgb + diffuse + vec3(spec), colDiffuse.a);
}
`
)

var ambient = [4]float32{0.22, 0.24, 0.28, 1}

const specularStrength = float32(0.35)

// setUniforms uploads the per-frame lighting values (cgo-safe: local arrays).
func (r *Registry) setUniforms() {
	if !rl.IsShaderValid(r.shader) {
		return
	}
	viewPos := [3]float32{r.viewPos[0], r.viewPos[1], r.viewPos[2]}
	lightDir := [3]float32{r.lightDir[0], r.lightDir[1], r.lightDir[2]}
	amb := ambient
	if loc := rl.GetShaderLocation(r.shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(r.shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(r.shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(r.shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(r.shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(r.shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(r.shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(r.shader, loc, []float32{specularStrength}, rl.ShaderUniformFloat)
	}
}
