package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/agamariel/clickqueue/internal/models"
)

// Kind - вид уведомления.
type Kind string

const (
	KindOrderConfirmed Kind = "order_confirmed"
	KindOrderReady     Kind = "order_ready"
)

type job struct {
	kind  Kind
	order *models.Order
}

// Dispatcher рассылает уведомления клиенту и владельцу в фоне.
// Доставка best-effort: ошибка любого канала логируется и не влияет
// ни на другие каналы, ни на вызвавший запрос. Несконфигурированные
// каналы и отсутствующий email клиента просто пропускаются.
type Dispatcher struct {
	email      EmailSender
	sms        MessageSender
	whatsapp   MessageSender
	ownerEmail string

	jobs     chan job
	quit     chan struct{}
	stopOnce sync.Once
	logger   *log.Logger

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher создаёт диспетчер уведомлений. Любой из каналов может быть nil.
func NewDispatcher(email EmailSender, sms, whatsapp MessageSender, ownerEmail string, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		email:      email,
		sms:        sms,
		whatsapp:   whatsapp,
		ownerEmail: ownerEmail,
		jobs:       make(chan job, 64),
		quit:       make(chan struct{}),
		logger:     logger,
	}
}

// Start запускает обработчик очереди в отдельной горутине.
// Обработчик живёт до отмены ctx или вызова Stop; в обоих случаях перед
// выходом он дорабатывает уже поставленные в очередь уведомления,
// поэтому Wait не зависает на лишних счётчиках.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case j := <-d.jobs:
				d.deliver(j)
				d.wg.Done()
			case <-ctx.Done():
				d.drain()
				return
			case <-d.quit:
				d.drain()
				return
			}
		}
	}()
}

// Stop просит обработчик завершиться после доставки очереди.
// Вызывается после остановки HTTP-сервера, когда новых заказов уже нет.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.quit) })
}

// drain доставляет остаток очереди и закрывает приём новых уведомлений.
// Мьютекс упорядочивает его с Dispatch: уведомление либо попало в jobs
// до установки stopped и будет доставлено здесь, либо увидит stopped
// и будет отброшено с записью в лог.
func (d *Dispatcher) drain() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	for {
		select {
		case j := <-d.jobs:
			d.deliver(j)
			d.wg.Done()
		default:
			return
		}
	}
}

// Dispatch ставит уведомление в очередь, не блокируя вызывающего.
// После остановки обработчика и при переполненной очереди уведомление
// отбрасывается с записью в лог.
func (d *Dispatcher) Dispatch(kind Kind, order *models.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		d.logger.Printf("dispatcher stopped, dropping %s for order %s", kind, order.OrderID)
		return
	}

	d.wg.Add(1)
	select {
	case d.jobs <- job{kind: kind, order: order}:
	default:
		d.wg.Done()
		d.logger.Printf("notification queue full, dropping %s for order %s", kind, order.OrderID)
	}
}

// Wait дожидается доставки всех поставленных в очередь уведомлений.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(j job) {
	switch j.kind {
	case KindOrderConfirmed:
		d.deliverConfirmed(j.order)
	case KindOrderReady:
		d.deliverReady(j.order)
	default:
		d.logger.Printf("unknown notification kind %q for order %s", j.kind, j.order.OrderID)
	}
}

func (d *Dispatcher) deliverConfirmed(order *models.Order) {
	d.sendEmail(order.Customer.Email,
		fmt.Sprintf("Order Confirmed - %s", order.OrderID),
		fmt.Sprintf(
			`<h2>Order Confirmed!</h2>
			<p>Hi %s,</p>
			<p><strong>Order ID:</strong> %s</p>
			<p><strong>Queue Number:</strong> #%d</p>
			<p><strong>Service:</strong> %s</p>
			<p><strong>Amount:</strong> Rs.%s</p>
			<p>You will be notified when your order is ready!</p>`,
			order.Customer.Name, order.OrderID, order.QueueNumber, order.ServiceType, order.TotalAmount,
		))

	d.sendEmail(d.ownerEmail,
		fmt.Sprintf("New Order #%d - %s", order.QueueNumber, order.OrderID),
		fmt.Sprintf(
			`<h2>New Order Received!</h2>
			<p><strong>Customer:</strong> %s</p>
			<p><strong>Phone:</strong> %s</p>
			<p><strong>Service:</strong> %s</p>
			<p><strong>Quantity:</strong> %d</p>
			<p><strong>Amount:</strong> Rs.%s</p>`,
			order.Customer.Name, order.Customer.Phone, order.ServiceType, order.Quantity, order.TotalAmount,
		))

	d.sendMessage(d.sms, "sms", order.Customer.Phone, fmt.Sprintf(
		"ClickQueue: Order %s confirmed! Queue #%d. Amount: Rs.%s. You will be notified when ready.",
		order.OrderID, order.QueueNumber, order.TotalAmount,
	))

	d.sendMessage(d.whatsapp, "whatsapp", order.Customer.Phone, fmt.Sprintf(
		"ClickQueue Order Confirmed!\n\nHi %s!\nOrder ID: %s\nQueue: #%d\nService: %s\nAmount: Rs.%s\n\nWe will notify you when ready!",
		order.Customer.Name, order.OrderID, order.QueueNumber, order.ServiceType, order.TotalAmount,
	))
}

func (d *Dispatcher) deliverReady(order *models.Order) {
	d.sendEmail(order.Customer.Email,
		fmt.Sprintf("Your Order is Ready! - %s", order.OrderID),
		fmt.Sprintf(
			`<h2>Your order is ready for pickup!</h2>
			<p>Hi %s,</p>
			<p>Order <strong>%s</strong> (Queue #%d) is ready.</p>
			<p>Please visit the shop and show your Order ID.</p>`,
			order.Customer.Name, order.OrderID, order.QueueNumber,
		))

	d.sendMessage(d.sms, "sms", order.Customer.Phone, fmt.Sprintf(
		"ClickQueue: Your order %s is READY for pickup! Please visit the shop.",
		order.OrderID,
	))

	d.sendMessage(d.whatsapp, "whatsapp", order.Customer.Phone, fmt.Sprintf(
		"ClickQueue - Order Ready!\n\nHi %s!\nYour order %s is READY for pickup!\nPlease visit the shop and show your Order ID.",
		order.Customer.Name, order.OrderID,
	))
}

// sendEmail отправляет письмо, если канал настроен и адрес известен.
func (d *Dispatcher) sendEmail(to, subject, body string) {
	if d.email == nil || to == "" {
		return
	}
	if err := d.email.Send(to, subject, body); err != nil {
		d.logger.Printf("email error: %v", err)
	}
}

// sendMessage отправляет сообщение, если канал настроен.
func (d *Dispatcher) sendMessage(sender MessageSender, channel, to, body string) {
	if sender == nil || to == "" {
		return
	}
	if err := sender.Send(to, body); err != nil {
		d.logger.Printf("%s error: %v", channel, err)
	}
}
