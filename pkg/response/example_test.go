package response_test

import (
	"fmt"

	"github.com/WhileEndless/go-trackresp/pkg/response"
)

func ExampleData_Cookies() {
	raw := []byte("HTTP/1.1 200 OK\r\n" +
		"Content-Type: image/gif\r\n" +
		"Set-Cookie: _pk_id=1a2b; Path=/; Secure\r\n" +
		"\r\n")

	conn, err := response.ParseRaw(raw)
	if err != nil {
		fmt.Println("parse:", err)
		return
	}

	data := response.New(conn)
	result, err := data.Cookies()
	if err != nil {
		fmt.Println("cookies:", err)
		return
	}

	fmt.Println(data.StatusCode(), result.Kind)
	for _, c := range result.Cookies {
		fmt.Printf("%s=%s path=%s secure=%v domain=%q\n", c.Name, c.Value, c.Path, c.Secure, c.Domain)
	}
	// Output:
	// 200 cookies
	// _pk_id=1a2b path=/ secure=true domain=""
}

func ExampleExtract_stop() {
	conn := &response.StaticConnection{
		Fields: map[string][]string{"": {""}},
		Code:   200,
	}

	result, _ := response.New(conn).Cookies()
	fmt.Println(result.Stopped(), result.Cookies == nil)
	// Output:
	// true true
}
