package mock

import "github.com/fwojciec/dq"

var (
	_ dq.Progress     = (*Progress)(nil)
	_ dq.ProgressTree = (*ProgressTree)(nil)
)

// Progress is a mock implementation of dq.Progress.
// Unlike the other mocks, unset functions are no-ops, since progress
// reporting never affects the outcome of an operation.
type Progress struct {
	SetPositionFn    func(n int64)
	IncFn            func(n int64)
	SetTotalFn       func(n int64)
	SetMessageFn     func(msg string)
	UpdateTemplateFn func(total int64)
	FinishFn         func(msg string)
}

func (p *Progress) SetPosition(n int64) {
	if p.SetPositionFn != nil {
		p.SetPositionFn(n)
	}
}

func (p *Progress) Inc(n int64) {
	if p.IncFn != nil {
		p.IncFn(n)
	}
}

func (p *Progress) SetTotal(n int64) {
	if p.SetTotalFn != nil {
		p.SetTotalFn(n)
	}
}

func (p *Progress) SetMessage(msg string) {
	if p.SetMessageFn != nil {
		p.SetMessageFn(msg)
	}
}

func (p *Progress) UpdateTemplate(total int64) {
	if p.UpdateTemplateFn != nil {
		p.UpdateTemplateFn(total)
	}
}

func (p *Progress) Finish(msg string) {
	if p.FinishFn != nil {
		p.FinishFn(msg)
	}
}

// ProgressTree is a mock implementation of dq.ProgressTree.
type ProgressTree struct {
	AddRootFn    func() dq.Progress
	AddChildFn   func(parent dq.Progress, total int64) dq.Progress
	AddMessageFn func(parent dq.Progress) dq.Progress
	RemoveFn     func(p dq.Progress)
}

func (t *ProgressTree) AddRoot() dq.Progress {
	return t.AddRootFn()
}

func (t *ProgressTree) AddChild(parent dq.Progress, total int64) dq.Progress {
	return t.AddChildFn(parent, total)
}

func (t *ProgressTree) AddMessage(parent dq.Progress) dq.Progress {
	return t.AddMessageFn(parent)
}

func (t *ProgressTree) Remove(p dq.Progress) {
	t.RemoveFn(p)
}
