package mqtt

import (
	"container/list"
	"fmt"
	"net/url"
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// ConnectHandler is to handle connect/disconnect events.
type ConnectHandler func(*Queue)

// Queue wraps an MQTT client. All topics are relative to TopicPrefix,
// which comes from the path of the broker URL.
type Queue struct {
	Client       paho.Client
	TopicPrefix  string
	OnConnect    ConnectHandler
	OnDisconnect ConnectHandler

	subs subscriptions
}

// Subscription is a subscribed topic.
type Subscription struct {
	Token paho.Token

	queue   *Queue
	elm     *list.Element
	topic   string
	handler Handler
}

// MatchTopic matches topic with pattern which may contain "+" and a
// trailing "#".
func MatchTopic(topic, pattern string) bool {
	tokensT, tokensP := strings.Split(topic, "/"), strings.Split(pattern, "/")
	for i, token := range tokensP {
		if token == "#" && i+1 == len(tokensP) {
			return true
		}
		if i >= len(tokensT) {
			return false
		}
		if token != "+" && token != tokensT[i] {
			return false
		}
	}
	return len(tokensP) == len(tokensT)
}

func isWildcard(topic string) bool {
	return strings.Contains(topic, "+") || strings.HasSuffix(topic, "#")
}

// ClientOptionsFromURL creates ClientOptions from a broker URL:
//   mqtt://[user:password@]host:port/topic-prefix/[?client-id=ID]
// Schemes other than mqtt are passed to paho as is (tcp, ssl, ws).
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	if u.Host == "" {
		return nil, "", fmt.Errorf("broker host missing in %q", serverURL)
	}
	scheme := u.Scheme
	if scheme == "" || scheme == "mqtt" {
		scheme = "tcp"
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(scheme + "://" + u.Host).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}
	return opts, strings.TrimPrefix(u.Path, "/"), nil
}

// NewQueue creates Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	options.SetOnConnectHandler(q.OnConnectHandler)
	options.SetConnectionLostHandler(q.ConnectionLostHandler)
	q.Client = paho.NewClient(options)
	return q
}

// NewQueueFromURL creates Queue from URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// Connect connects the client.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub subscribes a topic. The broker subscription is shared among
// handlers of the same topic.
func (q *Queue) Sub(topic string, handler Handler) *Subscription {
	sub := &Subscription{queue: q, topic: topic, handler: handler}
	if q.subs.add(sub) {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+topic)
		sub.Token = q.Client.Subscribe(q.TopicPrefix+topic, 0, q.dispatch)
	}
	return sub
}

// Pub publishes to a topic.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, 0, false)
}

// PubWith publishes with QoS and retain settings.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

// Resubscribe is used in OnConnect handler to subscribe all existing topics.
func (q *Queue) Resubscribe() paho.Token {
	filters := make(map[string]byte)
	for _, topic := range q.subs.topics() {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+topic)
		filters[q.TopicPrefix+topic] = 0
	}
	if len(filters) > 0 {
		return q.Client.SubscribeMultiple(filters, q.dispatch)
	}
	return &paho.DummyToken{}
}

// OnConnectHandler is the default implementation of paho.OnConnectHandler.
func (q *Queue) OnConnectHandler(paho.Client) {
	glog.Infof("MQTT connected, prefix %q", q.TopicPrefix)
	q.Resubscribe()
	if h := q.OnConnect; h != nil {
		h(q)
	}
}

// ConnectionLostHandler is the default implementation of paho.ConnectLostHandler.
func (q *Queue) ConnectionLostHandler(c paho.Client, err error) {
	glog.Warningf("MQTT connection lost: %v", err)
	if h := q.OnDisconnect; h != nil {
		h(q)
	}
}

func (q *Queue) dispatch(c paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	topic = topic[len(q.TopicPrefix):]
	glog.V(4).Infof("RCV %q", topic)
	payload := msg.Payload()
	for _, h := range q.subs.match(topic) {
		h(topic, payload)
	}
}

// Close unsubscribes the handler, and the topic once it has no handlers.
func (s *Subscription) Close() error {
	if !s.queue.subs.remove(s) {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", s.topic)
	token := s.queue.Client.Unsubscribe(s.queue.TopicPrefix + s.topic)
	token.Wait()
	return token.Error()
}

// subscriptions indexes handlers by exact topic and by wildcard pattern.
type subscriptions struct {
	lock     sync.RWMutex
	exact    map[string]*list.List
	wildcard map[string]*list.List
}

func (s *subscriptions) table(topic string) map[string]*list.List {
	if isWildcard(topic) {
		return s.wildcard
	}
	return s.exact
}

// add returns true if topic is subscribed for the first time.
func (s *subscriptions) add(sub *Subscription) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.exact == nil {
		s.exact, s.wildcard = make(map[string]*list.List), make(map[string]*list.List)
	}
	tbl := s.table(sub.topic)
	lst := tbl[sub.topic]
	first := lst == nil
	if first {
		lst = list.New()
		tbl[sub.topic] = lst
	}
	sub.elm = lst.PushBack(sub)
	return first
}

// remove returns true if the last handler of the topic is removed.
func (s *subscriptions) remove(sub *Subscription) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	tbl := s.table(sub.topic)
	lst := tbl[sub.topic]
	if lst == nil || sub.elm == nil {
		return false
	}
	lst.Remove(sub.elm)
	sub.elm = nil
	if lst.Len() > 0 {
		return false
	}
	delete(tbl, sub.topic)
	return true
}

func (s *subscriptions) topics() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	topics := make([]string, 0, len(s.exact)+len(s.wildcard))
	for topic := range s.exact {
		topics = append(topics, topic)
	}
	for topic := range s.wildcard {
		topics = append(topics, topic)
	}
	return topics
}

func (s *subscriptions) match(topic string) []Handler {
	s.lock.RLock()
	defer s.lock.RUnlock()
	var handlers []Handler
	if lst := s.exact[topic]; lst != nil {
		for elm := lst.Front(); elm != nil; elm = elm.Next() {
			handlers = append(handlers, elm.Value.(*Subscription).handler)
		}
	}
	for pattern, lst := range s.wildcard {
		if MatchTopic(topic, pattern) {
			for elm := lst.Front(); elm != nil; elm = elm.Next() {
				handlers = append(handlers, elm.Value.(*Subscription).handler)
			}
		}
	}
	return handlers
}
