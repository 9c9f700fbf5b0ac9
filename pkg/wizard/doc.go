// Package wizard holds the survey's authoritative state. A Controller owns the
// response being collected and tracks which page the participant is on. Section
// forms report edits to it and renderers read snapshots from it. On the final
// page it hands the response to a submission.Client.
package wizard
