package httpServer

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleDashboard serves a minimal built-in viewer page: live MJPEG tiles for
// every camera the roster socket reports.
func (s *Server) handleDashboard(c *gin.Context) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>camrelay</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; background: #111; color: #eee; }
        .grid { display: flex; flex-wrap: wrap; gap: 16px; }
        .cam { border: 1px solid #333; padding: 8px; border-radius: 5px; }
        .cam img { display: block; max-width: 480px; }
        .cam h3 { margin: 4px 0; font-size: 14px; }
    </style>
</head>
<body>
    <h1>camrelay</h1>
    <p id="status">connecting...</p>
    <div class="grid" id="grid"></div>

    <script>
        const grid = document.getElementById('grid');
        const status = document.getElementById('status');
        const tiles = {};

        function render(cameras) {
            status.textContent = cameras.length + ' camera(s)';
            for (const id of cameras) {
                if (tiles[id]) continue;
                const div = document.createElement('div');
                div.className = 'cam';
                div.innerHTML = '<h3>' + id + '</h3><img src="/stream/' + encodeURIComponent(id) + '">';
                grid.appendChild(div);
                tiles[id] = div;
            }
        }

        const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
        const ws = new WebSocket(proto + location.host + '/ws/cameras');
        ws.onmessage = (event) => {
            const msg = JSON.parse(event.data);
            if (msg.event === 'camera-list') {
                render(msg.cameras);
            }
        };
        ws.onopen = () => {
            ws.send(JSON.stringify({action: 'get-cameras'}));
        };
        ws.onclose = () => {
            status.textContent = 'disconnected';
        };
    </script>
</body>
</html>`

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
