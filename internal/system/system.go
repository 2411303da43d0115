package system

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/skip2/go-qrcode"
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to read open file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to raise open file limit: %v", err)
	} else {
		log.Printf("[*] Open file limit raised to %d", rLimit.Cur)
	}
}

// Stats is a point-in-time view of this process
type Stats struct {
	RSSBytes   uint64
	CPUPercent float64
	Threads    int32
}

func (s Stats) String() string {
	return fmt.Sprintf("RSS %.1f MiB | CPU %.1f%% | Threads %d", float64(s.RSSBytes)/(1<<20), s.CPUPercent, s.Threads)
}

// ProcessStats samples memory, CPU and thread count of the current process
func ProcessStats() (Stats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Stats{}, fmt.Errorf("open process: %w", err)
	}

	var st Stats
	mem, err := p.MemoryInfo()
	if err != nil {
		return Stats{}, fmt.Errorf("memory info: %w", err)
	}
	st.RSSBytes = mem.RSS

	if cpu, err := p.CPUPercent(); err == nil {
		st.CPUPercent = cpu
	}
	if n, err := p.NumThreads(); err == nil {
		st.Threads = n
	}
	return st, nil
}

// QRCode renders url as a terminal QR code
func QRCode(url string) (string, error) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return q.ToSmallString(false), nil
}

// ViewerURL is the websocket address a viewer on the LAN can reach for addr
func ViewerURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "ws://" + addr + "/ws"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = outboundIP()
	}
	return "ws://" + net.JoinHostPort(host, port) + "/ws"
}

func outboundIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	return "localhost"
}

// FindLatestImage returns the newest map image in dir, or path itself when
// it names a file.
func FindLatestImage(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return path, nil
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return "", err
	}

	extensions := []string{".jpg", ".jpeg", ".png", ".webp"}
	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		isImage := false
		for _, ext := range extensions {
			if strings.HasSuffix(strings.ToLower(f.Name()), ext) {
				isImage = true
				break
			}
		}
		if isImage {
			info, err := f.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latestTime) {
				latestTime = info.ModTime()
				latestFile = filepath.Join(path, f.Name())
			}
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no map images found in %s", path)
	}

	return latestFile, nil
}
