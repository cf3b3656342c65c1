package aggregate

// AwaitingCredential is the progress percent emitted while a run blocks on a
// credential request.
const AwaitingCredential = -1

// Progress receives coarse scan updates: percent is 0-100, or
// AwaitingCredential while the run waits for a password. Consumers may
// ignore updates entirely.
type Progress func(percent int, message string)

func (p *Pipeline) emit(percent int, message string) {
	if p.progress != nil {
		p.progress(percent, message)
	}
}
