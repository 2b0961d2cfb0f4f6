package envoy

import "time"

// Notification receives events from a Client. The client itself never logs.
type Notification interface {
	TokenIssued(scheme string)
	TokenExpired(expiredAt time.Time)
	RequestCompleted(endpoint string, status int, elapsed time.Duration)
	RequestFailed(endpoint string, err error)
}

var NilNotification = nilNotification{}

type nilNotification struct {
}

func (n nilNotification) TokenIssued(_ string) {
}

func (n nilNotification) TokenExpired(_ time.Time) {
}

func (n nilNotification) RequestCompleted(_ string, _ int, _ time.Duration) {

}

func (n nilNotification) RequestFailed(_ string, _ error) {
}
