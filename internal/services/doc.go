// Package services holds cross-cutting helpers shared by the pipeline's
// collaborator clients: the error taxonomy used to classify cycle outcomes
// and context annotations for log correlation.
//
// Every stage failure is wrapped with exactly one sentinel marker so the
// orchestrator can map it to the narrowest applicable outcome with errors.Is
// instead of inspecting error strings.
package services
