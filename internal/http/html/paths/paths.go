// Package paths provides paths for the web UI.
package paths

func Home() string { return "/" }

func Login() string { return "/login" }

func Logout() string { return "/logout" }

func Profile() string { return "/profile" }

func NewUser() string { return "/create" }
