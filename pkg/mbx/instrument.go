/*
Copyright 2024.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package mbx

import "github.com/virtnic/txgbevf/pkg/metrics"

// instrumented wraps a Transport with Prometheus counters.
type instrumented struct {
	t Transport
}

// WithMetrics returns a Transport that counts every exchange by message
// type and result.
func WithMetrics(t Transport) Transport {
	return &instrumented{t: t}
}

func (i *instrumented) Exchange(msg Message) (Reply, error) {
	reply, err := i.t.Exchange(msg)
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultFail
	}
	metrics.MailboxExchanges.WithLabelValues(msg.Name(), result).Inc()
	return reply, err
}
