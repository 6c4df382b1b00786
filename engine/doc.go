// Package engine is the real-time stereo mastering engine that sits between
// a media source and the output device.
//
// The signal graph is built once, lazily, by [Engine.Init]:
//
//	source -> splitter -> [left EQ | right EQ] -> merger -> fade
//	       -> mid/side width -> limiter -> [output, meter]
//
// After construction only parameter values change. A control surface owns a
// [State] value and hands it to [Engine.UpdateFromState]; every gain, the
// width and the limiter preset then approach their new targets with a 0.1 s
// exponential time constant. [Engine.FadeIn] and [Engine.FadeOut] drive an
// independent linear crossfade stage for transport transitions.
//
// Failures never reach the playback pipeline: an unsupported host or a
// media handle bound elsewhere leave the engine inert and every call a
// no-op, and a suspended clock is retried with [Engine.Resume].
package engine
