// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

//go:build !debug

package tdzdd

// _DEBUG and _LOGLEVEL are the release-build counterparts of debug.go: no
// extra bookkeeping, no logging. Build with -tags debug to switch on the
// verbose variant.
const _DEBUG bool = false
const _LOGLEVEL int = 0
