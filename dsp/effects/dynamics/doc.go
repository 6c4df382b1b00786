// Package dynamics provides the output safety limiter.
//
// [Limiter] is a stereo-linked peak limiter with a log2-domain gain
// computer. It has two operating presets, [EngagedPreset] and
// [DisengagedPreset]; switching between them smooths threshold and ratio
// instead of jumping. Build with -tags fastmath to use the algo-approx
// log/exp approximations in the gain computer.
package dynamics
