package providers

import (
	"context"
	"os/exec"
	"regexp"
	"runtime"
	"strings"

	"osint-aggregator/internal/domain/model"

	"howett.net/plist"
)

// wifiNetworkCap 限制一次扫描返回的网络数。
const wifiNetworkCap = 10

const (
	wifiDefaultNote    = "WiFi scanning requires proper authorization and may be restricted"
	wifiPermissionNote = "WiFi scanning may require elevated permissions"
)

// commandRunner 抽象外部命令执行，便于测试注入。
type commandRunner func(ctx context.Context, name string, args ...string) (string, error)

func runCmd(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return "", &wifiCmdError{cmd: name, msg: msg}
	}
	return string(out), nil
}

type wifiCmdError struct {
	cmd string
	msg string
}

func (e *wifiCmdError) Error() string { return e.cmd + ": " + e.msg }

// wifiPlatform 是按宿主 OS 选择的一种枚举实现。
// 进程启动时选定一次，之后不再做动态分发。
type wifiPlatform interface {
	Name() string
	Scan(ctx context.Context) ([]model.WifiNetwork, error)
}

// Wifi 调用宿主机的网络枚举命令扫描附近/已保存的无线网络。
//
// 这是唯一带进程外副作用的适配器：是否允许调用由 HTTP 边界的
// 授权开关决定，这里只负责执行与解析。
type Wifi struct {
	platform wifiPlatform
}

func NewWifi() *Wifi {
	return &Wifi{platform: wifiPlatformFor(runtime.GOOS, runCmd)}
}

func wifiPlatformFor(goos string, run commandRunner) wifiPlatform {
	switch goos {
	case "linux":
		return &nmcliScanner{run: run}
	case "darwin":
		return &airportScanner{run: run}
	case "windows":
		return &netshScanner{run: run}
	default:
		return unsupportedScanner{goos: goos}
	}
}

func (w *Wifi) Category() string { return model.CategoryWifi }

// Scan 执行一次枚举。任何失败都收敛为 空列表 + 说明性 note，不向上抛错。
func (w *Wifi) Scan(ctx context.Context, location string) model.ProviderResult {
	result := model.WifiScanResult{
		Networks: []model.WifiNetwork{},
		Location: location,
		Platform: w.platform.Name(),
		Note:     wifiDefaultNote,
	}

	networks, err := w.platform.Scan(ctx)
	if err != nil {
		result.Error = err.Error()
		result.Note = wifiPermissionNote
		return model.ProviderResult{Category: model.CategoryWifi, Payload: result}
	}
	if len(networks) > wifiNetworkCap {
		networks = networks[:wifiNetworkCap]
	}
	result.Networks = networks
	return model.ProviderResult{Category: model.CategoryWifi, Payload: result}
}

// nmcliScanner 走 NetworkManager 的 terse 输出。
type nmcliScanner struct {
	run commandRunner
}

func (s *nmcliScanner) Name() string { return "linux" }

func (s *nmcliScanner) Scan(ctx context.Context) ([]model.WifiNetwork, error) {
	out, err := s.run(ctx, "nmcli", "-t", "-f", "SSID,SIGNAL,SECURITY", "device", "wifi", "list")
	if err != nil {
		return nil, err
	}

	networks := []model.WifiNetwork{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 3 {
			continue
		}
		networks = append(networks, model.WifiNetwork{
			SSID:     parts[0],
			Signal:   parts[1],
			Security: strings.Join(parts[2:], ":"),
		})
	}
	return networks, nil
}

// airportScanner 优先用 airport 私有工具；新版 macOS 已移除该工具，
// 失败时回落到 system_profiler 的 plist 输出。
type airportScanner struct {
	run commandRunner
}

const airportPath = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"

func (s *airportScanner) Name() string { return "darwin" }

func (s *airportScanner) Scan(ctx context.Context) ([]model.WifiNetwork, error) {
	out, err := s.run(ctx, airportPath, "-s")
	if err != nil {
		return s.scanSystemProfiler(ctx)
	}

	networks := []model.WifiNetwork{}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) > 0 {
		lines = lines[1:] // 表头
	}
	for _, line := range lines {
		parts := strings.Fields(line)
		if len(parts) < 6 {
			continue
		}
		networks = append(networks, model.WifiNetwork{
			SSID:     parts[0],
			BSSID:    parts[1],
			RSSI:     parts[2],
			Channel:  parts[3],
			Security: strings.Join(parts[4:], " "),
		})
	}
	return networks, nil
}

// spAirportReport 对应 system_profiler SPAirPortDataType -xml 的层级片段。
type spAirportReport []struct {
	Items []struct {
		Interfaces []struct {
			Name     string               `plist:"_name"`
			Networks []spAirportNetwork   `plist:"spairport_airport_other_local_wireless_networks"`
			Current  []spAirportNetwork   `plist:"spairport_current_network_information"`
		} `plist:"spairport_airport_interfaces"`
	} `plist:"_items"`
}

type spAirportNetwork struct {
	Name        string `plist:"_name"`
	Channel     string `plist:"spairport_network_channel"`
	Security    string `plist:"spairport_security_mode"`
	SignalNoise string `plist:"spairport_signal_noise"`
}

func (s *airportScanner) scanSystemProfiler(ctx context.Context) ([]model.WifiNetwork, error) {
	out, err := s.run(ctx, "system_profiler", "SPAirPortDataType", "-xml")
	if err != nil {
		return nil, err
	}

	var report spAirportReport
	if _, err := plist.Unmarshal([]byte(out), &report); err != nil {
		return nil, err
	}

	networks := []model.WifiNetwork{}
	for _, section := range report {
		for _, item := range section.Items {
			for _, iface := range item.Interfaces {
				for _, n := range append(iface.Current, iface.Networks...) {
					if n.Name == "" {
						continue
					}
					networks = append(networks, model.WifiNetwork{
						SSID:     n.Name,
						Signal:   n.SignalNoise,
						Channel:  n.Channel,
						Security: strings.TrimPrefix(n.Security, "spairport_security_mode_"),
					})
				}
			}
		}
	}
	return networks, nil
}

// netshScanner 读取 Windows 已保存的 WLAN 配置文件清单。
type netshScanner struct {
	run commandRunner
}

var netshProfileLine = regexp.MustCompile(`:\s*(.+)`)

func (s *netshScanner) Name() string { return "windows" }

func (s *netshScanner) Scan(ctx context.Context) ([]model.WifiNetwork, error) {
	out, err := s.run(ctx, "netsh", "wlan", "show", "profiles")
	if err != nil {
		return nil, err
	}

	networks := []model.WifiNetwork{}
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "All User Profile") && !strings.Contains(line, "User Profile") {
			continue
		}
		m := netshProfileLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		networks = append(networks, model.WifiNetwork{
			SSID: strings.TrimSpace(m[1]),
			Note: "Saved profile",
		})
	}
	return networks, nil
}

type unsupportedScanner struct {
	goos string
}

func (s unsupportedScanner) Name() string { return s.goos }

func (s unsupportedScanner) Scan(ctx context.Context) ([]model.WifiNetwork, error) {
	return nil, &wifiCmdError{cmd: "wifi scan", msg: "unsupported platform " + s.goos}
}
