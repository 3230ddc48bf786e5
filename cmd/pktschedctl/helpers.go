package main

import "strconv"

func parseInt64Arg(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseIntArg(s string) (int, error) {
	return strconv.Atoi(s)
}
