package main

import (
	"github.com/openrtc/rtcbuild/cmd/rtcbuild/internal"
)

func main() {
	internal.Execute()
}
