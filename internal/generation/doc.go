// Package generation turns source text into flashcard proposals.
//
// A Service records every attempt as a domain.Generation before the model is
// called, runs the model call under a hard deadline and either returns the
// proposals or records a domain.GenerationError describing the failure.
// Generator is the boundary to the language model; OpenRouterGenerator
// implements it on top of the openrouter chat client with a strict JSON
// schema for the reply.
package generation
