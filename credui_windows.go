//go:build windows
// +build windows

package main

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modcredui   = windows.NewLazySystemDLL("credui.dll")
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procCredUIPromptForCredentialsW        = modcredui.NewProc("CredUIPromptForCredentialsW")
	procCredUIPromptForWindowsCredentialsW = modcredui.NewProc("CredUIPromptForWindowsCredentialsW")
	procCredUnPackAuthenticationBufferW    = modcredui.NewProc("CredUnPackAuthenticationBufferW")

	procGetConsoleWindow = modkernel32.NewProc("GetConsoleWindow")
)

// creduiInfo is CREDUI_INFOW
type creduiInfo struct {
	cbSize         uint32
	hwndParent     uintptr
	pszMessageText *uint16
	pszCaptionText *uint16
	hbmBanner      uintptr
}

func newCreduiInfo(info displayInfo) (*creduiInfo, error) {
	caption, err := windows.UTF16PtrFromString(info.Caption)
	if err != nil {
		return nil, fmt.Errorf("invalid caption: %w", err)
	}
	message, err := windows.UTF16PtrFromString(info.Message)
	if err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}
	ci := &creduiInfo{
		hwndParent:     info.Parent,
		pszMessageText: message,
		pszCaptionText: caption,
	}
	ci.cbSize = uint32(unsafe.Sizeof(*ci))
	return ci, nil
}

// nativeCredUI calls credui.dll
type nativeCredUI struct{}

func defaultCredUI() credUI {
	if err := modcredui.Load(); err != nil {
		LogError("Failed to load credui.dll: %v", err)
		return nil
	}
	return nativeCredUI{}
}

// parentWindow returns the console window of this process, or 0
func (nativeCredUI) parentWindow() uintptr {
	if err := procGetConsoleWindow.Find(); err != nil {
		return 0
	}
	hwnd, _, _ := procGetConsoleWindow.Call()
	return hwnd
}

func (nativeCredUI) promptLegacy(info displayInfo, target string, user, pass []uint16, save *bool, flags credUIFlags) LegacyStatus {
	ci, err := newCreduiInfo(info)
	if err != nil {
		LogError("Cannot build credential dialog info: %v", err)
		return LegacyInvalidParameter
	}
	targetName, err := windows.UTF16PtrFromString(target)
	if err != nil {
		LogError("Invalid credential target: %v", err)
		return LegacyInvalidParameter
	}

	var fSave int32
	if *save {
		fSave = 1
	}

	r1, _, _ := procCredUIPromptForCredentialsW.Call(
		uintptr(unsafe.Pointer(ci)),
		uintptr(unsafe.Pointer(targetName)),
		0, // reserved
		0, // dwAuthError
		uintptr(unsafe.Pointer(&user[0])),
		uintptr(len(user)),
		uintptr(unsafe.Pointer(&pass[0])),
		uintptr(len(pass)),
		uintptr(unsafe.Pointer(&fSave)),
		uintptr(flags),
	)
	*save = fSave != 0
	return LegacyStatus(uint32(r1))
}

func (nativeCredUI) promptModern(info displayInfo, save *bool, flags credUIWinFlags) (ModernStatus, authBuffer) {
	ci, err := newCreduiInfo(info)
	if err != nil {
		LogError("Cannot build credential dialog info: %v", err)
		return ModernInvalidParameter, authBuffer{}
	}

	var (
		authPackage uint32
		outBuf      unsafe.Pointer
		outSize     uint32
		fSave       int32
	)
	if *save {
		fSave = 1
	}

	r1, _, _ := procCredUIPromptForWindowsCredentialsW.Call(
		uintptr(unsafe.Pointer(ci)),
		0, // dwAuthError
		uintptr(unsafe.Pointer(&authPackage)),
		0, // pvInAuthBuffer
		0, // ulInAuthBufferSize
		uintptr(unsafe.Pointer(&outBuf)),
		uintptr(unsafe.Pointer(&outSize)),
		uintptr(unsafe.Pointer(&fSave)),
		uintptr(flags),
	)
	*save = fSave != 0
	return ModernStatus(uint32(r1)), authBuffer{ptr: outBuf, size: outSize}
}

func (nativeCredUI) unpack(buf authBuffer, user, domain, pass []uint16) error {
	maxUser := uint32(len(user))
	maxDomain := uint32(len(domain))
	maxPass := uint32(len(pass))

	r1, _, e1 := procCredUnPackAuthenticationBufferW.Call(
		0, // dwFlags
		uintptr(buf.ptr),
		uintptr(buf.size),
		uintptr(unsafe.Pointer(&user[0])),
		uintptr(unsafe.Pointer(&maxUser)),
		uintptr(unsafe.Pointer(&domain[0])),
		uintptr(unsafe.Pointer(&maxDomain)),
		uintptr(unsafe.Pointer(&pass[0])),
		uintptr(unsafe.Pointer(&maxPass)),
	)
	if r1 == 0 {
		return fmt.Errorf("CredUnPackAuthenticationBufferW: %w", e1)
	}
	return nil
}

// free zeroes and releases a buffer returned by CredUIPromptForWindowsCredentialsW
func (nativeCredUI) free(buf authBuffer) {
	if buf.ptr == nil {
		return
	}
	clear(unsafe.Slice((*byte)(buf.ptr), buf.size))
	windows.CoTaskMemFree(buf.ptr)
}
