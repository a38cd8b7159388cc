package web

const successMsg = "success"

// Result is the envelope of every API response. Failures keep HTTP 200 and
// report the error in Code.
type Result struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func success(data any) Result {
	return Result{Code: 200, Msg: successMsg, Data: data}
}

func failure(msg string) Result {
	return Result{Code: 500, Msg: msg}
}
