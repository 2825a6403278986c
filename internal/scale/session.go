package scale

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	DefaultBaudRate = 9600
	readTimeout     = 3 * time.Second
)

// ErrTimeout: Süre dolana kadar geçerli bir ağırlık satırı gelmedi
var ErrTimeout = errors.New("tartıdan belirlenen sürede veri alınamadı")

// PortOpener: Test edilebilirlik için port açma soyutlaması
type PortOpener func(portName string, baudRate int) (io.ReadCloser, error)

// openSerialPort: Gerçek seri portu 8N1 ile açar
func openSerialPort(portName string, baudRate int) (io.ReadCloser, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return serial.Open(portName, mode)
}

// Aynı fiziksel porta eşzamanlı istekler cihaz üzerinde yarışmasın diye
// edinim port adı bazında serileştirilir
var portLocks sync.Map // port adı -> *sync.Mutex

func lockFor(portName string) *sync.Mutex {
	mu, _ := portLocks.LoadOrStore(portName, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Session: Tek bir ağırlık okuma isteği. Her istek kendi port handle'ını
// açar ve terminal sonuçta (başarı, zaman aşımı, hata) kapatır; istekler
// arası paylaşılan durum yoktur.
type Session struct {
	portName string
	baudRate int
	open     PortOpener
	timeout  time.Duration
}

func NewSession(portName string, baudRate int) *Session {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	return &Session{
		portName: portName,
		baudRate: baudRate,
		open:     openSerialPort,
		timeout:  readTimeout,
	}
}

type readOutcome struct {
	weight string
	err    error
}

// Read: İlk geçerli ağırlık satırını döndürür. Terminal olaylardan
// (eşleşme, port hatası, zaman aşımı) yalnızca ilki dikkate alınır;
// geç kalan sonuçlar yok sayılır.
func (s *Session) Read() (string, error) {
	mu := lockFor(s.portName)
	mu.Lock()
	defer mu.Unlock()

	port, err := s.open(s.portName, s.baudRate)
	if err != nil {
		return "", fmt.Errorf("tartı portu açılamadı (%s): %w", s.portName, err)
	}

	results := make(chan readOutcome, 1)

	go func() {
		scanner := bufio.NewScanner(port)
		for scanner.Scan() {
			weight, ok := ParseWeightLine(scanner.Text())
			if !ok {
				// Bozuk/uzun satır: gürültü, dinlemeye devam
				continue
			}
			select {
			case results <- readOutcome{weight: weight}:
			default:
			}
			return
		}
		if scanErr := scanner.Err(); scanErr != nil {
			select {
			case results <- readOutcome{err: fmt.Errorf("tartı portundan okunamadı: %w", scanErr)}:
			default:
			}
		}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	responded := false
	var out readOutcome
	select {
	case out = <-results:
		responded = true
	case <-timer.C:
	}

	// Port her terminal durumda kapanır; kapanış okuyucu goroutine'i de sonlandırır
	port.Close()

	if !responded {
		return "", ErrTimeout
	}
	return out.weight, out.err
}
