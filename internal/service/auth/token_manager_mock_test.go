package auth

import (
	"sync"
	"time"

	"github.com/verdd/verdd-backend/internal/auth"
	"github.com/verdd/verdd-backend/internal/domain"
)

var _ tokenManager = &tokenManagerMock{}

type tokenManagerMock struct {
	IssueFunc  func(u domain.User) (string, time.Time, error)
	VerifyFunc func(token string) (auth.Claims, error)

	calls struct {
		Issue []struct {
			U domain.User
		}
		Verify []struct {
			Token string
		}
	}
	lockIssue  sync.RWMutex
	lockVerify sync.RWMutex
}

func (mock *tokenManagerMock) Issue(u domain.User) (string, time.Time, error) {
	if mock.IssueFunc == nil {
		panic("tokenManagerMock.IssueFunc: method is nil but tokenManager.Issue was just called")
	}
	mock.lockIssue.Lock()
	mock.calls.Issue = append(mock.calls.Issue, struct{ U domain.User }{U: u})
	mock.lockIssue.Unlock()
	return mock.IssueFunc(u)
}

func (mock *tokenManagerMock) IssueCalls() []struct{ U domain.User } {
	mock.lockIssue.RLock()
	calls := mock.calls.Issue
	mock.lockIssue.RUnlock()
	return calls
}

func (mock *tokenManagerMock) Verify(token string) (auth.Claims, error) {
	if mock.VerifyFunc == nil {
		panic("tokenManagerMock.VerifyFunc: method is nil but tokenManager.Verify was just called")
	}
	mock.lockVerify.Lock()
	mock.calls.Verify = append(mock.calls.Verify, struct{ Token string }{Token: token})
	mock.lockVerify.Unlock()
	return mock.VerifyFunc(token)
}

func (mock *tokenManagerMock) VerifyCalls() []struct{ Token string } {
	mock.lockVerify.RLock()
	calls := mock.calls.Verify
	mock.lockVerify.RUnlock()
	return calls
}
