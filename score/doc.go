// Package score implements the quality metrics computed for a model
// response: relevance and faithfulness. Both scorers are thin numeric layers
// over an injectable Embedder backend so the embedding model can be swapped
// (OpenAI, local Ollama) or pinned for deterministic tests.
//
// Scoring method:
//   - Relevance: cosine similarity between the prompt and response
//     embeddings, clamped to [0,1].
//   - Faithfulness: the response is split into sentences; each sentence is
//     scored by cosine similarity against the reference embedding and the
//     sentence scores are averaged. A response whose every sentence is
//     supported by the reference scores near 1.
//
// Given identical inputs and a pinned Embedder both scorers are
// deterministic. NaN or non-finite values coming back from an embedding
// backend surface as *ScoringError, never as a silently clamped score.
package score
