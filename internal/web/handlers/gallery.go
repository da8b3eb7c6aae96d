package handlers

import "net/http"

// galleryPage is the single page the service renders. The grid is populated
// over htmx; the modal viewer is plain JavaScript so the page keeps working
// when the fragment endpoint is slow.
const galleryPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Art Gallery</title>
    <script src="https://unpkg.com/htmx.org@2.0.3"></script>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: Georgia, 'Times New Roman', serif; background: #faf8f5; color: #2d2a26; }
        header { text-align: center; padding: 2.5rem 1rem 1.5rem; }
        header h1 { font-size: 2.2rem; font-weight: normal; letter-spacing: 0.05em; }
        .controls { text-align: center; margin-bottom: 1.5rem; }
        .controls button { font: inherit; background: none; border: 1px solid #b8b2a7; padding: 0.4rem 1.2rem; margin: 0 0.3rem; cursor: pointer; border-radius: 2px; }
        .controls button:hover { background: #edeae4; }
        .controls button.active { background: #2d2a26; color: #faf8f5; border-color: #2d2a26; }
        #loading { text-align: center; color: #8a8378; padding: 2rem; }
        #gallery { display: grid; grid-template-columns: repeat(auto-fill, minmax(260px, 1fr)); gap: 1.5rem; max-width: 1200px; margin: 0 auto; padding: 0 1.5rem 3rem; }
        .card { background: #fff; border: 1px solid #e5e1d8; border-radius: 3px; overflow: hidden; cursor: pointer; }
        .card img { width: 100%; height: 220px; object-fit: cover; display: block; }
        .card .meta { padding: 0.8rem 1rem; }
        .card h3 { font-size: 1.05rem; font-weight: normal; }
        .card p { font-size: 0.85rem; color: #8a8378; margin-top: 0.25rem; }
        .empty { grid-column: 1 / -1; text-align: center; color: #8a8378; padding: 3rem 1rem; line-height: 1.7; }
        #modal { display: none; position: fixed; inset: 0; background: rgba(20, 18, 15, 0.92); z-index: 10; padding: 2rem; }
        #modal.open { display: flex; flex-direction: column; align-items: center; justify-content: center; }
        #modalImg { max-width: 90vw; max-height: 75vh; object-fit: contain; }
        #modalTitle { color: #f5f2ec; margin-top: 1rem; font-size: 1.3rem; font-weight: normal; }
        #modalDate { color: #b8b2a7; margin-top: 0.35rem; font-size: 0.9rem; }
        .close { position: absolute; top: 1rem; right: 1.5rem; color: #f5f2ec; font-size: 2rem; cursor: pointer; background: none; border: none; }
    </style>
</head>
<body>
    <header>
        <h1>Art Gallery</h1>
    </header>
    <div class="controls">
        <button id="sortDate" class="active" hx-get="/api/artworks?sort=date" hx-target="#gallery">Newest first</button>
        <button id="sortName" hx-get="/api/artworks?sort=name" hx-target="#gallery">By name</button>
    </div>
    <div id="loading">Loading artworks&hellip;</div>
    <div id="gallery" hx-get="/api/artworks" hx-trigger="load" hx-on::after-request="document.getElementById('loading').style.display='none'">
    </div>
    <div id="modal">
        <button class="close" onclick="closeModal()">&times;</button>
        <img id="modalImg" src="" alt="">
        <h2 id="modalTitle"></h2>
        <p id="modalDate"></p>
    </div>
    <script>
        var modal = document.getElementById('modal');
        var savedScroll = 0;

        function openModal(src, title, caption) {
            document.getElementById('modalImg').src = src;
            document.getElementById('modalImg').alt = title;
            document.getElementById('modalTitle').textContent = title;
            document.getElementById('modalDate').textContent = caption;
            savedScroll = window.scrollY;
            modal.classList.add('open');
            document.body.style.overflow = 'hidden';
        }

        function closeModal() {
            modal.classList.remove('open');
            document.getElementById('modalImg').src = '';
            document.body.style.overflow = '';
            window.scrollTo(0, savedScroll);
        }

        var sortButtons = [document.getElementById('sortDate'), document.getElementById('sortName')];
        sortButtons.forEach(function (btn) {
            btn.addEventListener('click', function () {
                sortButtons.forEach(function (b) { b.classList.remove('active'); });
                btn.classList.add('active');
            });
        });

        modal.addEventListener('click', function (e) {
            if (e.target === modal) closeModal();
        });
        document.addEventListener('keydown', function (e) {
            if (e.key === 'Escape' && modal.classList.contains('open')) closeModal();
        });
    </script>
</body>
</html>
`

func (h *Handler) galleryPageHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(galleryPage)); err != nil {
		h.log.Error(r.Context()).Err(err).Msg("failed to write gallery page")
	}
}
