// Package param provides click-free parameter automation for the render
// thread.
//
// A [Param] is written from a control goroutine and read from the render
// goroutine. Control-side calls never block: each one publishes a new
// automation (hold, exponential approach to a target, or linear ramp) that
// replaces whatever was scheduled before. The render side adopts the newest
// automation at the start of its next block and steps the live value either
// per sample ([Param.Fill], [Param.Next]) or once per block
// ([Param.Advance]).
//
// A [Clock] counts rendered frames. Automations only progress while frames
// are rendered, so a suspended rendering clock also freezes every ramp.
package param
